package main

import (
	"fmt"

	"StockPredict/internal/di"
	"StockPredict/internal/domain/models"
	"StockPredict/internal/usecase"
	"StockPredict/pkg/config"
	applogger "StockPredict/pkg/logger"
	"StockPredict/pkg/util"

	"github.com/spf13/cobra"
)

type rootOpts struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOpts{}
	root := &cobra.Command{
		Use:          "forecast",
		Short:        "Next-day return prediction from technical indicators",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "config/config.yaml", "config file path")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log model loading to stderr")

	root.AddCommand(predictCmd(opts))
	root.AddCommand(modelCmd(opts))
	return root
}

func predictCmd(opts *rootOpts) *cobra.Command {
	var (
		rsi, roc, volume, price float64
		date, format            string
		noReference             bool
	)
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the next-day return and print the projected trajectory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatTable && format != formatJSON {
				return fmt.Errorf("--format must be %q or %q", formatTable, formatJSON)
			}
			uc, err := buildUseCase(opts)
			if err != nil {
				return err
			}

			in := models.ForecastInput{RSI: rsi, ROC: roc, Volume: volume, IncludeReference: !noReference}
			if cmd.Flags().Changed("price") {
				in.CurrentPrice = &price
			}
			if date != "" {
				t, ok := util.ParseTime(date)
				if !ok {
					return fmt.Errorf("--date %q: expected YYYY-MM-DD or RFC3339", date)
				}
				in.Date = t
			}

			fc, err := uc.Forecast(cmd.Context(), in)
			if err != nil {
				return err
			}
			return renderForecast(cmd.OutOrStdout(), fc, format)
		},
	}
	f := cmd.Flags()
	f.Float64Var(&rsi, "rsi", 0, "Relative Strength Index, 0..100")
	f.Float64Var(&roc, "roc", 0, "rate of change")
	f.Float64Var(&volume, "volume", 0, "trading volume, >= 0")
	f.Float64Var(&price, "price", 0, "current price; the trajectory starts at the configured base price when omitted")
	f.StringVar(&date, "date", "", "analysis date (YYYY-MM-DD), defaults to today")
	f.StringVar(&format, "format", formatTable, "output format: table or json")
	f.BoolVar(&noReference, "no-reference", false, "omit the flat reference line")
	_ = cmd.MarkFlagRequired("rsi")
	_ = cmd.MarkFlagRequired("roc")
	_ = cmd.MarkFlagRequired("volume")
	return cmd
}

func modelCmd(opts *rootOpts) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Show the model artifact status",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := buildUseCase(opts)
			if err != nil {
				return err
			}
			info, loadErr := uc.Describe(cmd.Context())
			if err := renderModel(cmd.OutOrStdout(), info, format); err != nil {
				return err
			}
			return loadErr
		},
	}
	cmd.Flags().StringVar(&format, "format", formatTable, "output format: table or json")
	return cmd
}

func buildUseCase(opts *rootOpts) (*usecase.ForecastUseCase, error) {
	cfg, err := config.LoadWithEnv(opts.configPath)
	if err != nil {
		return nil, err
	}

	level := "error"
	if opts.verbose {
		level = "info"
	}
	l, err := applogger.New(&applogger.Config{Level: level, Format: "console", Output: "stderr"})
	if err != nil {
		return nil, err
	}

	store := di.ProvideModelStore(cfg, l, nil)
	return di.ProvideForecastUseCase(cfg, store, nil, nil, l)
}
