package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/bodgit/imgflip"
	"github.com/bodgit/imgflip/img"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

var flipFlags = []cli.Flag{
	&cli.BoolFlag{
		Name:    "horizontal",
		Aliases: []string{"x"},
		Usage:   "mirror around the vertical axis",
	},
	&cli.BoolFlag{
		Name:    "vertical",
		Aliases: []string{"y"},
		Usage:   "mirror around the horizontal axis",
	},
}

func flip(c *cli.Context) imgflip.Flip {
	return imgflip.Flip{
		Horizontal: c.Bool("horizontal"),
		Vertical:   c.Bool("vertical"),
	}
}

// converter builds a Converter from the global flags. The returned function
// closes the catalog, if any.
func converter(c *cli.Context) (*imgflip.Converter, func(), error) {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}

	if c.String("db") == "" {
		return imgflip.New(nil, logger), func() {}, nil
	}

	catalog, err := imgflip.NewCatalog(c.String("db"))
	if err != nil {
		return nil, nil, err
	}

	return imgflip.New(catalog, logger), func() { catalog.Close() }, nil
}

func info(file string) (img.Header, error) {
	f, err := os.Open(file)
	if err != nil {
		return img.Header{}, err
	}
	defer f.Close()

	return img.DecodeConfig(f)
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "imgflip"
	app.Usage = "Mirror raw IMG images"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"IMGFLIP_DB"},
			Usage:   "path to conversion catalog",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "flip",
			Usage:     "Mirror a single image",
			ArgsUsage: "SOURCE DESTINATION",
			Flags:     flipFlags,
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				conv, done, err := converter(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer done()

				if err := conv.Convert(c.Args().Get(0), c.Args().Get(1), flip(c)); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "batch",
			Usage:     "Mirror every image below a directory",
			ArgsUsage: "SOURCE DESTINATION",
			Flags: append([]cli.Flag{
				&cli.IntFlag{
					Name:  "workers",
					Value: 10,
					Usage: "number of concurrent conversions",
				},
			}, flipFlags...),
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				conv, done, err := converter(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer done()

				if err := conv.ConvertDir(c.Args().Get(0), c.Args().Get(1), flip(c), c.Int("workers")); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "info",
			Usage:     "Print the header of one or more images",
			ArgsUsage: "FILE...",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				for _, file := range c.Args().Slice() {
					h, err := info(file)
					if err != nil {
						return cli.NewExitError(fmt.Errorf("%s: %w", file, err), 1)
					}
					bpp, _ := h.Format.BytesPerPixel()
					fmt.Fprintf(c.App.Writer, "%s: %s, %d bytes per pixel\n", file, h, bpp)
				}

				return nil
			},
		},
		{
			Name:      "export",
			Usage:     "Export an image as PNG",
			ArgsUsage: "SOURCE DESTINATION",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "colors",
					Usage: "reduce to a palette of this many colors",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				conv, done, err := converter(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer done()

				if err := conv.Export(c.Args().Get(0), c.Args().Get(1), c.Int("colors")); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:  "history",
			Usage: "List conversions recorded in the catalog",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "limit",
					Value: 20,
					Usage: "maximum number of entries, 0 for all",
				},
			},
			Action: func(c *cli.Context) error {
				if c.String("db") == "" {
					return cli.NewExitError("no catalog, use --db", 1)
				}

				catalog, err := imgflip.NewCatalog(c.String("db"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer catalog.Close()

				history, err := catalog.History(c.Int("limit"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				w := tabwriter.NewWriter(c.App.Writer, 0, 8, 1, ' ', 0)
				for _, conv := range history {
					result := "ok"
					if conv.Err != "" {
						result = conv.Err
					}
					header := "-"
					if conv.Header != nil {
						header = conv.Header.String()
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", conv.Created.Format(time.RFC3339), conv.Source, conv.Destination, conv.Flip, header, result)
				}

				return w.Flush()
			},
		},
	}

	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
