package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/talentgrid-hq/talentgrid/modules/recruitment/infrastructure/persistence"
	"github.com/talentgrid-hq/talentgrid/modules/recruitment/services"
	"github.com/talentgrid-hq/talentgrid/modules/recruitment/services/sheetimport"
	"github.com/talentgrid-hq/talentgrid/pkg/composables"
	"github.com/talentgrid-hq/talentgrid/pkg/configuration"
	"github.com/talentgrid-hq/talentgrid/pkg/eventbus"
	"github.com/talentgrid-hq/talentgrid/pkg/excel"
)

type importOptions struct {
	File   string
	Kind   string
	Team   string
	Tenant string
	Actor  string
	Apply  bool
}

func newImportCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import --file <workbook.xlsx> --kind <personal|team> --tenant <uuid>",
		Short: "Ingest a placement sheet; dry-run by default, --apply to persist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(opts.File) == "" {
				return errors.New("--file is required")
			}
			if opts.Kind != "personal" && opts.Kind != "team" {
				return errors.New("--kind must be personal or team")
			}
			tenantID, err := uuid.Parse(opts.Tenant)
			if err != nil {
				return errors.New("--tenant must be a valid uuid")
			}

			f, err := os.Open(opts.File)
			if err != nil {
				return err
			}
			defer f.Close()
			headers, rows, err := excel.Flatten(f)
			if err != nil {
				return err
			}
			req := sheetimport.Request{
				Headers:   headers,
				Rows:      rows,
				TeamScope: opts.Team,
				Source:    filepath.Base(opts.File),
			}

			conf := configuration.Use()
			logger := conf.Logger()

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()
			pool, err := pgxpool.New(ctx, conf.Database.Opts)
			if err != nil {
				return err
			}
			defer pool.Close()

			ctx = composables.WithPool(ctx, pool)
			ctx = composables.WithTenantID(ctx, tenantID)
			ctx = composables.WithLogger(ctx, logger.WithField("entrypoint", "recruit-data"))
			if actorID, err := uuid.Parse(opts.Actor); err == nil {
				ctx = composables.WithActorID(ctx, actorID)
			}

			kind := sheetimport.Personal
			if opts.Kind == "team" {
				kind = sheetimport.Team
			}

			if !opts.Apply {
				return dryRun(ctx, cmd, kind, req)
			}

			svc := services.NewPlacementImportService(
				persistence.NewEmployeeRepository(),
				persistence.NewPlacementRepository(),
				persistence.NewImportBatchRepository(),
				eventbus.NewEventPublisher(logger),
			)
			var result *services.ImportResult
			if kind == sheetimport.Team {
				result, err = svc.ImportTeam(ctx, req)
			} else {
				result, err = svc.ImportPersonal(ctx, req)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}

	cmd.Flags().StringVar(&opts.File, "file", "", "path to the xlsx workbook")
	cmd.Flags().StringVar(&opts.Kind, "kind", "personal", "sheet kind: personal or team")
	cmd.Flags().StringVar(&opts.Team, "team", "", "restrict a team import to one team")
	cmd.Flags().StringVar(&opts.Tenant, "tenant", "", "tenant uuid")
	cmd.Flags().StringVar(&opts.Actor, "actor", "", "acting user uuid for audit attribution")
	cmd.Flags().BoolVar(&opts.Apply, "apply", false, "persist the import instead of printing the scan result")

	return cmd
}

// dryRun scans the sheet against active staff and prints what would be
// persisted, without touching placement tables.
func dryRun(ctx context.Context, cmd *cobra.Command, kind sheetimport.Kind, req sheetimport.Request) error {
	staff, err := persistence.NewEmployeeRepository().GetAllActive(ctx)
	if err != nil {
		return err
	}
	scan, err := sheetimport.Run(kind, req, staff, composables.UseLogger(ctx))
	if err != nil {
		return err
	}

	type preview struct {
		Employee    string `json:"employee"`
		Candidate   string `json:"candidate,omitempty"`
		Client      string `json:"client,omitempty"`
		PlcKey      string `json:"plcKey,omitempty"`
		Placeholder bool   `json:"placeholder,omitempty"`
	}
	previews := make([]preview, 0, len(scan.Rows))
	for _, row := range scan.Rows {
		previews = append(previews, preview{
			Employee:    row.Entity.DisplayName(),
			Candidate:   row.Fields.CandidateName,
			Client:      row.Fields.Client,
			PlcKey:      row.Fields.PlcKey,
			Placeholder: row.Placeholder,
		})
	}
	return printJSON(cmd, map[string]any{
		"rows":   previews,
		"errors": scan.Errors,
		"report": scan.Report,
	})
}

func printJSON(cmd *cobra.Command, payload any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
