package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/bodgit/romgfx"
	"github.com/bodgit/romgfx/palette"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

// parseAddress accepts decimal or 0x prefixed hexadecimal offsets
func parseAddress(s string) (int64, error) {
	a, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q", s)
	}
	if a < 0 {
		return 0, fmt.Errorf("negative address %q", s)
	}
	return a, nil
}

func newExtractor(c *cli.Context) (*romgfx.Extractor, error) {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return romgfx.New(c.String("db"), logger)
}

func extractOptions(c *cli.Context) (romgfx.Options, error) {
	f, err := palette.ParseFormat(c.String("palette-format"))
	if err != nil {
		return romgfx.Options{}, err
	}
	if c.Int("scale") < 1 {
		return romgfx.Options{}, fmt.Errorf("invalid scale %d", c.Int("scale"))
	}
	return romgfx.Options{
		Output:        c.String("output"),
		Palette:       c.String("palette"),
		PaletteFormat: f,
		LegacyPalette: c.Bool("legacy-palette"),
		Scale:         c.Int("scale"),
		NoCache:       c.Bool("no-cache"),
	}, nil
}

func extractFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "output",
			Aliases:  []string{"o"},
			Usage:    "image `FILE` to write, extension selects png, gif or qoi",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "palette",
			Aliases: []string{"p"},
			Usage:   "palette `FILE` of packed 16-bit colors",
		},
		&cli.StringFlag{
			Name:  "palette-format",
			Value: palette.BGR555.String(),
			Usage: "palette color packing, bgr555 or cram",
		},
		&cli.BoolFlag{
			Name:  "legacy-palette",
			Usage: "use the built-in title palette instead of grayscale",
		},
		&cli.IntFlag{
			Name:  "scale",
			Value: 1,
			Usage: "enlarge the image by `N`",
		},
		&cli.BoolFlag{
			Name:  "no-cache",
			Usage: "always decode, ignoring the catalogue",
		},
	}
}

func main() {
	app := cli.NewApp()

	app.Name = "romgfx"
	app.Usage = "Compressed ROM tile graphics extractor"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"ROMGFX_DB"},
			Usage:   "path to catalogue database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "extract",
			Usage:     "Decode graphics at an address and write an image",
			ArgsUsage: "FILE",
			Flags: append(extractFlags(), &cli.StringFlag{
				Name:    "address",
				Aliases: []string{"a"},
				Value:   "0",
				Usage:   "`OFFSET` of the compressed stream, decimal or 0x hex",
			}),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				opts, err := extractOptions(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				if opts.Address, err = parseAddress(c.String("address")); err != nil {
					return cli.Exit(err, 1)
				}

				e, err := newExtractor(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer e.Close()

				s, err := e.Extract(c.Args().First(), opts)
				if err != nil {
					return cli.Exit(err, 1)
				}

				fmt.Printf("compressed size: %#X // %d\n", s.CompressedSize, s.CompressedSize)
				fmt.Printf("uncompressed size: %#X, %d, %d\n", s.DecodedSize, s.Width, s.Height)

				return nil
			},
		},
		{
			Name:      "batch",
			Usage:     "Decode graphics at several addresses concurrently",
			ArgsUsage: "FILE",
			Flags: append(extractFlags(), &cli.StringSliceFlag{
				Name:     "address",
				Aliases:  []string{"a"},
				Usage:    "`OFFSET` of a compressed stream, may be repeated",
				Required: true,
			}),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				opts, err := extractOptions(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				var addresses []int64
				for _, s := range c.StringSlice("address") {
					a, err := parseAddress(s)
					if err != nil {
						return cli.Exit(err, 1)
					}
					addresses = append(addresses, a)
				}

				e, err := newExtractor(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer e.Close()

				if err := e.ExtractAll(c.Args().First(), opts, addresses); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:  "list",
			Usage: "List extractions recorded in the catalogue",
			Action: func(c *cli.Context) error {
				if c.String("db") == "" {
					return cli.Exit("no catalogue database given", 1)
				}

				e, err := newExtractor(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer e.Close()

				entries, err := e.Catalog().List()
				if err != nil {
					return cli.Exit(err, 1)
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 8, 1, ' ', 0)
				fmt.Fprintln(w, "SOURCE\tSHA1\tADDRESS\tCOMPRESSED\tDECODED")
				for _, entry := range entries {
					fmt.Fprintf(w, "%s\t%s\t%#x\t%d\t%d\n", entry.Name, entry.SHA1, entry.Address, entry.CompressedSize, entry.DecodedSize)
				}
				return w.Flush()
			},
		},
		{
			Name:      "encode",
			Usage:     "Convert an image into raw planar tiles and a palette",
			ArgsUsage: "IMAGE",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "output",
					Aliases:  []string{"o"},
					Usage:    "base `NAME` for the .bin and .pal files",
					Required: true,
				},
				&cli.StringFlag{
					Name:  "palette-format",
					Value: palette.BGR555.String(),
					Usage: "palette color packing, bgr555 or cram",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				f, err := palette.ParseFormat(c.String("palette-format"))
				if err != nil {
					return cli.Exit(err, 1)
				}

				e, err := newExtractor(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer e.Close()

				if err := e.EncodeTiles(c.Args().First(), c.String("output"), f); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
