package cli

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"catalog-audit/internal/app"
)

type auditOptions struct {
	ConfigPath  string
	TokenPath   string
	AppNames    []string
	Format      string
	Workers     int
	MetricsFile string
	NoFail      bool
}

func bindAuditFlags(cmd *cobra.Command, opts *auditOptions) {
	flags := cmd.Flags()
	flags.StringVar(&opts.ConfigPath, "conf", "./config.yaml", "Configuration file path")
	flags.StringVar(&opts.TokenPath, "token-path", "~/.github-token", "GitHub token path, empty for anonymous access")
	flags.StringArrayVar(&opts.AppNames, "app-name", nil, "Only report for this app (repeatable)")
	flags.StringVar(&opts.Format, "format", app.FormatMarkdown, "Report format (markdown, pretty, yaml)")
	flags.IntVar(&opts.Workers, "workers", 1, "Number of apps validated in parallel")
	flags.StringVar(&opts.MetricsFile, "metrics-file", "", "Write run metrics in Prometheus text format to this file")
	flags.BoolVar(&opts.NoFail, "no-fail", false, "Exit with 0 even when error findings were reported")
	_ = viper.BindPFlag("conf", flags.Lookup("conf"))
	_ = viper.BindPFlag("token_path", flags.Lookup("token-path"))
	_ = viper.BindPFlag("app_name", flags.Lookup("app-name"))
	_ = viper.BindPFlag("format", flags.Lookup("format"))
	_ = viper.BindPFlag("workers", flags.Lookup("workers"))
	_ = viper.BindPFlag("metrics_file", flags.Lookup("metrics-file"))
	_ = viper.BindPFlag("no_fail", flags.Lookup("no-fail"))
}

func runAudit(cmd *cobra.Command, opts auditOptions) error {
	ctx := log.Logger.WithContext(cmd.Context())
	workers := resolveInt(cmd, opts.Workers, "workers", "workers")
	if workers < 1 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("workers must be at least 1 (is %d)", workers))
	}
	service := newAppService()
	result, err := service.Audit(ctx, app.AuditRequest{
		ConfigPath:  resolveString(cmd, opts.ConfigPath, "conf", "conf"),
		TokenPath:   resolveString(cmd, opts.TokenPath, "token_path", "token-path"),
		AppNames:    resolveStrings(cmd, opts.AppNames, "app_name", "app-name"),
		Format:      resolveString(cmd, opts.Format, "format", "format"),
		Workers:     workers,
		MetricsFile: resolveString(cmd, opts.MetricsFile, "metrics_file", "metrics-file"),
		Out:         cmd.OutOrStdout(),
	})
	if err != nil {
		return err
	}
	if result.Totals.Errors > 0 && !resolveBool(cmd, opts.NoFail, "no_fail", "no-fail") {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("audit found %d errors", result.Totals.Errors))
	}
	return nil
}
