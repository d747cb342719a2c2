package eventbus

import (
	"reflect"

	"github.com/sirupsen/logrus"
)

type Subscriber struct {
	Handler interface{}
}

type EventBus interface {
	Publish(args ...interface{})
	Subscribe(handler interface{})
	Unsubscribe(handler interface{})
	Clear()
	SubscribersCount() int
}

type publisherImpl struct {
	log         *logrus.Logger
	Subscribers []Subscriber
}

func NewEventPublisher(log *logrus.Logger) EventBus {
	return &publisherImpl{log: log}
}

// MatchSignature reports whether the handler function accepts exactly the
// given argument list.
func MatchSignature(handler interface{}, args []interface{}) bool {
	t := reflect.TypeOf(handler)
	if t.Kind() != reflect.Func {
		return false
	}
	if t.NumIn() != len(args) {
		return false
	}
	for i, arg := range args {
		paramType := t.In(i)
		if arg == nil {
			if paramType.Kind() != reflect.Interface && paramType.Kind() != reflect.Ptr {
				return false
			}
			continue
		}
		argType := reflect.TypeOf(arg)
		if paramType.Kind() == reflect.Interface {
			if !argType.Implements(paramType) {
				return false
			}
			continue
		}
		if argType != paramType {
			return false
		}
	}
	return true
}

func (p *publisherImpl) Publish(args ...interface{}) {
	matched := 0
	for _, sub := range p.Subscribers {
		if !MatchSignature(sub.Handler, args) {
			continue
		}
		matched++
		in := make([]reflect.Value, len(args))
		for i, arg := range args {
			if arg == nil {
				in[i] = reflect.Zero(reflect.TypeOf(sub.Handler).In(i))
				continue
			}
			in[i] = reflect.ValueOf(arg)
		}
		go reflect.ValueOf(sub.Handler).Call(in)
	}
	if matched == 0 && p.log != nil {
		p.log.WithField("args", len(args)).Debug("event published with no matching subscribers")
	}
}

func (p *publisherImpl) Subscribe(handler interface{}) {
	p.Subscribers = append(p.Subscribers, Subscriber{Handler: handler})
}

func (p *publisherImpl) Unsubscribe(handler interface{}) {
	hv := reflect.ValueOf(handler).Pointer()
	out := p.Subscribers[:0]
	for _, sub := range p.Subscribers {
		if reflect.ValueOf(sub.Handler).Pointer() != hv {
			out = append(out, sub)
		}
	}
	p.Subscribers = out
}

func (p *publisherImpl) Clear() {
	p.Subscribers = nil
}

func (p *publisherImpl) SubscribersCount() int {
	return len(p.Subscribers)
}
