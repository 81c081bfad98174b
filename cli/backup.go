package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/stsysd/plantcare/client"
	"github.com/stsysd/plantcare/model"
)

var exportCmd = &cobra.Command{
	Use:     "export [FILE]",
	GroupID: "data",
	Short:   "Write plants and fertilizers to a backup file",
	Long: `Write plants and fertilizers to a JSON backup file. Care logs are not
exported. Without FILE the backup is written to plant-care-backup-<date>.json
in the current directory; use "-" for standard output.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSynchronizer(cmd.Context())
		if err != nil {
			return err
		}

		now := time.Now()
		path := client.BackupFileName(now)
		if len(args) == 1 {
			path = args[0]
		}

		if path == "-" {
			_, err := s.Export(cmd.OutOrStdout(), now)
			return err
		}

		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		backup, err := s.Export(f, now)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d plants and %d fertilizers to %s\n",
			len(backup.Data.Plants), len(backup.Data.Fertilizers), path)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:     "import FILE",
	GroupID: "data",
	Short:   "Load plants and fertilizers from a backup file",
	Long: `Load plants and fertilizers from a JSON backup file in one transaction.

--policy decides what happens to records whose id already exists:
  skip     keep the existing record (default)
  replace  overwrite it with the record from the file
  reject   abort the whole import`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		policyFlag, _ := cmd.Flags().GetString("policy")
		yes, _ := cmd.Flags().GetBool("yes")

		policy, err := model.NewConflictPolicy(policyFlag)
		if err != nil {
			return err
		}

		data, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}
		backup, err := client.ReadBackup(bytes.NewReader(data))
		if err != nil {
			return err
		}

		if !yes {
			ok, err := confirmImport(backup, policy)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Import cancelled")
				return nil
			}
		}

		s := client.NewSynchronizer(newClient())
		result, err := s.Import(cmd.Context(), bytes.NewReader(data), policy)
		if err != nil {
			if client.IsStatus(err, http.StatusConflict) {
				return errors.New("import rejected: some records already exist (try --policy skip or replace)")
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d plants (%d skipped) and %d fertilizers (%d skipped)\n",
			result.PlantsImported, result.PlantsSkipped, result.FertilizersImported, result.FertilizersSkipped)
		return nil
	},
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func confirmImport(backup *model.Backup, policy model.ConflictPolicy) (bool, error) {
	var confirmed bool
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Import %d plants and %d fertilizers?", len(backup.Data.Plants), len(backup.Data.Fertilizers))).
		Description(fmt.Sprintf("Backup from %s, existing records: %s", backup.ExportDate, policy)).
		Affirmative("Import").
		Negative("Cancel").
		Value(&confirmed).
		Run()
	if err != nil {
		return false, fmt.Errorf("confirmation failed (use --yes to skip): %w", err)
	}
	return confirmed, nil
}

func init() {
	importCmd.Flags().String("policy", string(model.ConflictSkip), "conflict policy: skip, replace or reject")
	importCmd.Flags().BoolP("yes", "y", false, "import without asking for confirmation")

	rootCmd.AddCommand(exportCmd, importCmd)
}
