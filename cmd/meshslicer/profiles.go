package main

import (
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/MeshSlicer/internal/model"
	"github.com/piwi3910/MeshSlicer/internal/project"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Manage printer profiles and backups",
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in and custom printer profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tBUILT-IN\tBED (mm)\tDESCRIPTION")
		for _, p := range model.AllProfiles() {
			fmt.Fprintf(tw, "%s\t%t\t%.0fx%.0fx%.0f\t%s\n", p.Name, p.IsBuiltIn, p.BedWidth, p.BedDepth, p.MaxHeight, p.Description)
		}
		return tw.Flush()
	},
}

var profilesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show the G-code dialect of a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := findProfile(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Name:        %s\n", p.Name)
		fmt.Fprintf(out, "Description: %s\n", p.Description)
		fmt.Fprintf(out, "Build:       %.0f x %.0f x %.0f mm\n", p.BedWidth, p.BedDepth, p.MaxHeight)
		fmt.Fprintf(out, "Nozzle/bed:  %d / %d °C\n", p.NozzleTemp, p.BedTemp)
		fmt.Fprintf(out, "Moves:       %s / %s\n", p.RapidMove, p.FeedMove)
		fmt.Fprintf(out, "Start code:  %v\n", p.StartCode)
		fmt.Fprintf(out, "End code:    %v\n", p.EndCode)
		return nil
	},
}

var profilesExportCmd = &cobra.Command{
	Use:   "export <name> <file>",
	Short: "Write a profile to a JSON file for sharing",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := findProfile(args[0])
		if err != nil {
			return err
		}
		if err := project.ExportProfile(args[1], p); err != nil {
			return err
		}
		logger.Info("profile exported", "profile", p.Name, "path", args[1])
		return nil
	},
}

var profilesImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Add a profile from a JSON file to the custom profiles",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := project.ImportProfile(args[0])
		if err != nil {
			return err
		}
		if slices.ContainsFunc(model.PrinterProfiles, func(b model.PrinterProfile) bool { return b.Name == p.Name }) {
			return fmt.Errorf("profile %q is built in and cannot be replaced", p.Name)
		}

		path := project.DefaultProfilesPath()
		custom, err := project.LoadCustomProfiles(path)
		if err != nil {
			return err
		}
		custom = slices.DeleteFunc(custom, func(c model.PrinterProfile) bool { return c.Name == p.Name })
		custom = append(custom, p)
		if err := project.SaveCustomProfiles(path, custom); err != nil {
			return err
		}
		logger.Info("profile imported", "profile", p.Name, "path", path)
		return nil
	},
}

var profilesBackupCmd = &cobra.Command{
	Use:   "backup <file>",
	Short: "Write the application config and custom profiles to one file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := project.ExportAllData(args[0], appConfig, model.CustomProfiles); err != nil {
			return err
		}
		logger.Info("backup written", "path", args[0], "profiles", len(model.CustomProfiles))
		return nil
	},
}

var profilesRestoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Restore the application config and custom profiles from a backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := project.ImportAllData(args[0])
		if err != nil {
			return err
		}
		if err := project.SaveAppConfig(configPath, data.Config); err != nil {
			return err
		}
		if err := project.SaveCustomProfiles(project.DefaultProfilesPath(), data.Profiles); err != nil {
			return err
		}
		logger.Info("backup restored", "path", args[0], "created", data.CreatedAt, "profiles", len(data.Profiles))
		return nil
	},
}

func findProfile(name string) (model.PrinterProfile, error) {
	for _, p := range model.AllProfiles() {
		if p.Name == name {
			return p, nil
		}
	}
	return model.PrinterProfile{}, fmt.Errorf("unknown printer profile %q", name)
}

func init() {
	profilesCmd.AddCommand(profilesListCmd, profilesShowCmd, profilesExportCmd,
		profilesImportCmd, profilesBackupCmd, profilesRestoreCmd)
	rootCmd.AddCommand(profilesCmd)
}
