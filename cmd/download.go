package cmd

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"piccomarr/internal/client"
	"piccomarr/internal/console"
	"piccomarr/internal/domain"
	"piccomarr/internal/files"
	"piccomarr/internal/pages"
	"piccomarr/internal/parse"
	"piccomarr/internal/sanitize"
	"piccomarr/internal/source"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download episodes or volumes of a serie",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		if err := files.IsValidLocation(outputDirectory); err != nil {
			fmt.Println("Invalid location:", err)
			return
		}

		id, err := domain.ParseSerieID(serieID)
		if err != nil {
			fmt.Printf("Invalid serie: %v\n", err)
			return
		}

		unitType, err := domain.ParseUnitType(mediaType)
		if err != nil {
			fmt.Printf("Invalid media type: %v\n", err)
			return
		}

		if archiveFormat != "cbz" && archiveFormat != "pdf" {
			fmt.Println("Invalid format:", archiveFormat)
			return
		}

		c, err := client.New(client.Config{
			Retries: requestRetries,
			Delay:   time.Duration(requestDelay) * time.Millisecond,
		})
		if err != nil {
			fmt.Printf("Failed to create client: %v\n", err)
			return
		}

		if userEmail != "" {
			password, err := promptPassword()
			if err != nil {
				fmt.Printf("Failed to read password: %v\n", err)
				return
			}

			if err := c.Login(ctx, userEmail, password); err != nil {
				fmt.Printf("Failed to log in as %q: %v\n", userEmail, err)
				return
			}
		}

		serie, err := source.ResolveSerie(ctx, c, id, unitType)
		if err != nil {
			fmt.Printf("Failed to get serie %s: %v\n", id, err)
			return
		}

		selected, explicit, err := selectUnits(serie, unitSelection, unitType)
		if err != nil {
			fmt.Printf("Failed to select units for %q: %v\n", serie.Title(), err)
			return
		}

		serieDir := filepath.Join(outputDirectory, sanitize.Filename(serie.Title()))
		if err := os.MkdirAll(serieDir, os.ModePerm); err != nil {
			fmt.Printf("Failed to create %q: %v\n", serieDir, err)
			return
		}

		fmt.Printf("Downloading %q...\n", serie.Title())

		progress := console.NewProgress()
		progress.AddUnits(len(selected))
		progress.Start()
		defer progress.Stop()

		for _, unit := range selected {
			label := fmt.Sprintf("%s %03d", unitType, unit.Number())

			if !unit.Available() {
				if explicit {
					fmt.Printf("Failed to download %s: not available on this account\n", label)
					return
				}
				console.Warn(fmt.Sprintf("%s is not available, skipping", label))
				progress.UnitDone()
				continue
			}

			if unit.PresentAt(serieDir, archiveFormat) {
				console.OK(fmt.Sprintf("%s has already been downloaded, skipping", label))
				progress.UnitDone()
				continue
			}

			if err := downloadUnit(ctx, c, unit, serieDir, archiveFormat, progress); err != nil {
				fmt.Printf("Failed to download %s: %v\n", label, err)
				return
			}

			console.OK(fmt.Sprintf("%s downloaded", label))
			progress.UnitDone()
		}
	},
}

// selectUnits resolves the --numbers flag against the serie. An empty
// selection means every unit; an explicit selection fails on numbers the
// serie does not have.
func selectUnits(serie domain.Serie, selection string, unitType domain.UnitType) ([]domain.Unit, bool, error) {
	if selection == "" {
		return serie.Units(), false, nil
	}

	numbers, err := parse.UnitSelection(selection)
	if err != nil {
		return nil, true, err
	}

	selected := make([]domain.Unit, 0, len(numbers))
	for _, number := range numbers {
		unit, ok := serie.FindByNumber(number)
		if !ok {
			return nil, true, fmt.Errorf("no %s with number %d", unitType, number)
		}
		selected = append(selected, unit)
	}

	return selected, true, nil
}

// downloadUnit fetches every page of a unit, assembles the archive and
// writes it next to the other units of the serie. A nil progress is fine.
func downloadUnit(ctx context.Context, c *client.Client, unit domain.Unit, serieDir, format string, progress *console.Progress) error {
	it, err := pages.Resolve(ctx, c, unit)
	if err != nil {
		return err
	}

	if progress != nil {
		progress.AddPages(it.Len())
	}

	counted := &countingIterator{it: it, progress: progress}

	var data []byte
	switch format {
	case "pdf":
		data, err = files.AssemblePDF(ctx, counted, unit.Title())
	default:
		data, err = files.AssembleCBZ(ctx, counted, unit.Title())
	}
	if err != nil {
		return err
	}

	return files.AtomicWrite(filepath.Join(serieDir, unit.ArchiveName(format)), data)
}

type countingIterator struct {
	it       *pages.Iterator
	progress *console.Progress
}

func (ci *countingIterator) Len() int {
	return ci.it.Len()
}

func (ci *countingIterator) Next(ctx context.Context) (image.Image, error) {
	img, err := ci.it.Next(ctx)
	if err == nil && ci.progress != nil {
		ci.progress.PageDone()
	}
	return img, err
}

func promptPassword() (string, error) {
	fmt.Print("Your password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(password), nil
}
