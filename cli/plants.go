package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stsysd/plantcare/model"
)

// findPlant はIDまたは名前（大文字小文字を区別しない）で植物を探します。
// 同じ名前の植物が複数ある場合はエラーになります。
func findPlant(plants []*model.Plant, query string) (*model.Plant, error) {
	for _, p := range plants {
		if p.ID == query {
			return p, nil
		}
	}

	var matches []*model.Plant
	for _, p := range plants {
		if strings.EqualFold(p.Name, query) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no plant matches %q", query)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%d plants are named %q, use the id instead", len(matches), query)
	}
}

var plantsCmd = &cobra.Command{
	Use:     "plants",
	GroupID: "care",
	Short:   "List plants with their watering mood",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSynchronizer(cmd.Context())
		if err != nil {
			return err
		}

		report, skipped := s.Due(time.Now())
		moods := make(map[string]string, len(report.Plants))
		for _, st := range report.Plants {
			moods[st.PlantID] = moodText(st.Mood)
		}

		plants := s.Plants()
		if len(plants) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("No plants yet. Add one with \"plantcare plant add\"."))
			return nil
		}

		t := newTable("ID", "NAME", "TYPE", "WATER", "FERTILIZE", "LAST WATERED", "LAST FERTILIZED", "MOOD")
		for _, p := range plants {
			mood, ok := moods[p.ID]
			if !ok {
				mood = warnStyle.Render("invalid date")
			}
			t.Row(
				p.ID,
				p.Name,
				string(p.Type),
				fmt.Sprintf("every %dd", p.WaterCycle),
				fmt.Sprintf("every %dd", p.FertilizerCycle),
				p.LastWatered,
				p.LastFertilized,
				mood,
			)
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.Render())
		printSkipped(cmd, skipped)
		return nil
	},
}

var plantCmd = &cobra.Command{
	Use:     "plant",
	GroupID: "care",
	Short:   "Add or remove plants",
}

var plantAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add a plant watered and fertilized today",
	Example: `  plantcare plant add Aloe --type summer --water 7 --fertilizer 30
  plantcare plant add "Lithops lesliei" --type winter-growing --water 14`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		typeFlag, _ := cmd.Flags().GetString("type")
		water, _ := cmd.Flags().GetInt("water")
		fertilizer, _ := cmd.Flags().GetInt("fertilizer")

		plantType, err := model.ParsePlantType(typeFlag)
		if err != nil {
			return err
		}

		s, err := loadSynchronizer(cmd.Context())
		if err != nil {
			return err
		}
		plant, err := s.AddPlant(cmd.Context(), args[0], plantType, water, fertilizer)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", plant.Name, plant.ID)
		return nil
	},
}

var plantRmCmd = &cobra.Command{
	Use:     "rm PLANT",
	Aliases: []string{"remove", "delete"},
	Short:   "Remove a plant by id or name; its care logs are kept",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSynchronizer(cmd.Context())
		if err != nil {
			return err
		}
		plant, err := findPlant(s.Plants(), args[0])
		if err != nil {
			return err
		}
		if err := s.DeletePlant(cmd.Context(), plant.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", plant.Name)
		return nil
	},
}

var fertilizersCmd = &cobra.Command{
	Use:     "fertilizers",
	GroupID: "care",
	Short:   "List fertilizers",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fertilizers, err := newClient().ListFertilizers(cmd.Context())
		if err != nil {
			return err
		}
		if len(fertilizers) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), mutedStyle.Render("No fertilizers yet."))
			return nil
		}

		t := newTable("ID", "NAME", "TYPE", "ADDED")
		for _, f := range fertilizers {
			t.Row(f.ID, f.Name, string(f.Type), f.CreatedAt)
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.Render())
		return nil
	},
}

var fertilizerCmd = &cobra.Command{
	Use:     "fertilizer",
	GroupID: "care",
	Short:   "Add or remove fertilizers",
}

var fertilizerAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add a fertilizer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		typeFlag, _ := cmd.Flags().GetString("type")
		fertilizerType, err := model.ParseFertilizerType(typeFlag)
		if err != nil {
			return err
		}

		s, err := loadSynchronizer(cmd.Context())
		if err != nil {
			return err
		}
		f, err := s.AddFertilizer(cmd.Context(), args[0], fertilizerType)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", f.Name, f.ID)
		return nil
	},
}

var fertilizerRmCmd = &cobra.Command{
	Use:     "rm ID",
	Aliases: []string{"remove", "delete"},
	Short:   "Remove a fertilizer",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().DeleteFertilizer(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
		return nil
	},
}

func printSkipped(cmd *cobra.Command, skipped []error) {
	for _, err := range skipped {
		fmt.Fprintln(cmd.ErrOrStderr(), warnStyle.Render("Warning: "+err.Error()))
	}
}

func init() {
	plantAddCmd.Flags().StringP("type", "t", string(model.PlantTypeIntermediate), "growing type (winter-growing, summer-growing, intermediate)")
	plantAddCmd.Flags().IntP("water", "w", 7, "watering cycle in days")
	plantAddCmd.Flags().IntP("fertilizer", "f", 30, "fertilizing cycle in days")
	plantCmd.AddCommand(plantAddCmd, plantRmCmd)

	fertilizerAddCmd.Flags().StringP("type", "t", string(model.FertilizerTypeGeneral), "fertilizer type (growth-promoting, flowering-promoting, general-purpose)")
	fertilizerCmd.AddCommand(fertilizerAddCmd, fertilizerRmCmd)

	rootCmd.AddCommand(plantsCmd, plantCmd, fertilizersCmd, fertilizerCmd)
}
