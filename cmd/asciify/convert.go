package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"asciify/internal/app"
	"asciify/internal/ascii"
	"asciify/internal/config"
	"asciify/internal/invocation"
	"asciify/internal/pipeline"
	"asciify/internal/pkg/errors"
	"asciify/internal/pkg/logger"
	"asciify/internal/util"
)

func newConvertCmd(cfg config.Config) *cobra.Command {
	var (
		fit    string
		upload bool
		opts   = cfg.ASCII
	)

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert an image file and print the rendering",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ascii.ParseFit(fit)
			if err != nil {
				return errors.WrapWithCode(err, errors.CodeValidation, "cli.convert", "invalid --fit")
			}
			opts.Fit = f

			blob, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			conv, err := ascii.New(opts)
			if err != nil {
				return err
			}

			deps := pipeline.Deps{
				Converter: conv,
				Namer:     pipeline.Namer{Prefix: cfg.NamePrefix},
				Log:       logger.Discard(),
			}
			function := app.FunctionPrintMessage
			if upload {
				deps.Sink = app.Sink(cfg.Storage)
				function = app.FunctionAsciifyUpload
			}

			inv := invocation.New(util.NewID("cli"), function, logger.Discard())
			return runConvert(cmd, pipeline.New(deps), inv, filepath.Base(args[0]), blob)
		},
	}

	cmd.Flags().StringVar(&fit, "fit", string(cfg.ASCII.Fit), "fit mode: box, width, height, original, none")
	cmd.Flags().IntVar(&opts.Width, "width", cfg.ASCII.Width, "maximum columns")
	cmd.Flags().IntVar(&opts.Height, "height", cfg.ASCII.Height, "maximum lines")
	cmd.Flags().BoolVar(&opts.Color, "color", cfg.ASCII.Color, "emit ANSI colours")
	cmd.Flags().BoolVar(&opts.Reversed, "reversed", cfg.ASCII.Reversed, "invert the brightness ramp")
	cmd.Flags().BoolVar(&upload, "upload", false, "upload the rendering to the configured container")

	return cmd
}

func runConvert(cmd *cobra.Command, p *pipeline.Processor, inv *invocation.Invocation, name string, blob []byte) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := p.Run(ctx, inv, name, blob)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, res.Rendering.String())
	if res.BlobName != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "uploaded %s to %s/%s (%d bytes)\n", res.BlobName, res.Provider, res.Container, res.Size)
	}
	return nil
}
