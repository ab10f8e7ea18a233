package main

import (
	"fmt"
	"os"
	"strings"

	"toss-go/internal/app"
	"toss-go/internal/config"
	"toss-go/internal/thumb"
	"toss-go/internal/toss"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates a TossApp. The caller must defer
// a.Close(). operation identifies the CLI command being run.
func newApp(operation string) (*app.TossApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewTossApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "toss",
	Short: "Image triage output manager",
}

// config command

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["data_dir"], defaults["cache_dir"])
		cfg.ThumbnailSize = thumb.DefaultSize

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Data Dir:  %s\n", cfg.DataDir)
		fmt.Printf("Cache Dir: %s\n", cfg.CacheDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Data Dir:       %s\n", cfg.DataDir)
		fmt.Printf("Log Dir:        %s\n", cfg.LogDir)
		fmt.Printf("Cache Dir:      %s\n", cfg.CacheDir)
		fmt.Printf("Thumbnail Size: %d\n", cfg.ThumbnailSize)
		return nil
	},
}

// project command

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ListProjects")
		if err != nil {
			return err
		}
		defer a.Close()

		summaries, err := a.ListProjects()
		if err != nil {
			return err
		}
		for _, s := range summaries {
			fmt.Printf("%s\t%s\t%d folders\t%s\n", s.ID, s.Name, s.FolderCount, s.Path)
		}
		return nil
	},
}

var projectCreateOutput string

var projectCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("CreateProject")
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.CreateProject(args[0], projectCreateOutput)
		if err != nil {
			return err
		}
		fmt.Printf("Created project %s (%s)\n", p.Name, p.ID)
		return nil
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Remove a project from the registry (files are left in place)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("DeleteProject")
		if err != nil {
			return err
		}
		defer a.Close()
		return a.DeleteProject(args[0])
	},
}

var projectShowCmd = &cobra.Command{
	Use:   "show DIR",
	Short: "Show a project's config",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("GetProject")
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.GetProject(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\nmode: %s\n", p.Name, p.ID, p.OutputDirectoryMode)
		for _, f := range p.Folders {
			fmt.Printf("  %s\t%s\t%s\n", f.ID, f.OutputMode, f.SourcePath)
		}
		return nil
	},
}

var projectSetModeCmd = &cobra.Command{
	Use:   "set-mode DIR MODE",
	Short: "Set the output directory mode (unified or per-folder) without migrating",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("SetOutputMode")
		if err != nil {
			return err
		}
		defer a.Close()
		return a.SetOutputMode(args[0], args[1])
	},
}

var projectMigrateCmd = &cobra.Command{
	Use:   "migrate DIR MODE",
	Short: "Migrate the output tree to the target layout",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("MigrateOutputs")
		if err != nil {
			return err
		}
		defer a.Close()

		conflicts, err := a.Migrate(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Migrated to %s layout\n", args[1])
		for _, c := range conflicts {
			fmt.Printf("  renamed: %s\n", c)
		}
		return nil
	},
}

var projectStatsCmd = &cobra.Command{
	Use:   "stats DIR",
	Short: "Show project-wide keep/maybe counts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ProjectStats")
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := a.ProjectStats(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("keep: %d\tmaybe: %d\n", stats.TotalKeep, stats.TotalMaybe)
		for _, fs := range stats.FolderStats {
			fmt.Printf("  %s\tsource=%d keep=%d maybe=%d\n",
				fs.FolderName, fs.SourceCount, fs.KeepCount, fs.MaybeCount)
		}
		return nil
	},
}

// folder command

var folderCmd = &cobra.Command{
	Use:   "folder",
	Short: "Manage a project's source folders",
}

var folderAddMode string

var folderAddCmd = &cobra.Command{
	Use:   "add DIR SOURCE",
	Short: "Add a source folder to a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("AddFolder")
		if err != nil {
			return err
		}
		defer a.Close()

		f, err := a.AddFolder(args[0], args[1], folderAddMode)
		if err != nil {
			return err
		}
		fmt.Printf("Added folder %s (%s)\n", f.SourcePath, f.ID)
		return nil
	},
}

var folderRemoveCmd = &cobra.Command{
	Use:   "remove DIR FOLDER_ID",
	Short: "Detach a folder from a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("RemoveFolder")
		if err != nil {
			return err
		}
		defer a.Close()
		return a.RemoveFolder(args[0], args[1])
	},
}

var folderStatsCmd = &cobra.Command{
	Use:   "stats DIR FOLDER_ID",
	Short: "Show a folder's image counts",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("FolderStats")
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := a.FolderStats(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("%s\tsource=%d keep=%d maybe=%d\n",
			stats.FolderName, stats.SourceCount, stats.KeepCount, stats.MaybeCount)
		return nil
	},
}

// images command

var imagesCmd = &cobra.Command{
	Use:   "images",
	Short: "List images",
}

var imagesListCmd = &cobra.Command{
	Use:   "list DIR",
	Short: "List images in a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ListImages")
		if err != nil {
			return err
		}
		defer a.Close()

		images, err := a.ListImages(args[0])
		if err != nil {
			return err
		}
		for _, img := range images {
			dims := ""
			if img.Width != nil && img.Height != nil {
				dims = fmt.Sprintf("%dx%d", *img.Width, *img.Height)
			}
			fmt.Printf("%s\t%d\t%s\t%s\n", img.Name, img.Size, dims, img.ID)
		}
		return nil
	},
}

var imagesOutputsCmd = &cobra.Command{
	Use:   "outputs DIR CLASSIFICATION",
	Short: "List sorted output images (keep or maybe) with their origin folder",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ListOutputImages")
		if err != nil {
			return err
		}
		defer a.Close()

		images, err := a.ListOutputImages(args[0], args[1])
		if err != nil {
			return err
		}
		for _, img := range images {
			fmt.Printf("%s\t%s\t%s\n", img.Name, img.SourceFolderID, img.Path)
		}
		return nil
	},
}

var imagesURLCmd = &cobra.Command{
	Use:   "url PATH",
	Short: "Print the full-resolution image as a data URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("GetImageDataURL")
		if err != nil {
			return err
		}
		defer a.Close()

		url, err := a.GetImageDataURL(args[0])
		if err != nil {
			return err
		}
		fmt.Println(url)
		return nil
	},
}

// thumb command

var thumbSize int

var thumbCmd = &cobra.Command{
	Use:   "thumb PATH",
	Short: "Print a cached thumbnail as a JPEG data URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("GetThumbnail")
		if err != nil {
			return err
		}
		defer a.Close()

		url, err := a.GetThumbnail(args[0], thumbSize)
		if err != nil {
			return err
		}
		fmt.Println(url)
		return nil
	},
}

// triage command

var (
	triageProject string
	triageFolder  string
	triageMode    string
	triageKeep    []string
	triageMaybe   []string
	triageDiscard []string
)

var triageCmd = &cobra.Command{
	Use:   "triage",
	Short: "Commit a batch of classification decisions",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ExecuteTriage")
		if err != nil {
			return err
		}
		defer a.Close()

		batch := toss.Batch{
			Keep:       triageKeep,
			Maybe:      triageMaybe,
			Discard:    triageDiscard,
			OutputMode: toss.OutputMode(triageMode),
		}
		if err := a.ExecuteTriage(triageProject, triageFolder, batch); err != nil {
			return err
		}
		fmt.Printf("Sorted %d keep, %d maybe, %d discarded\n",
			len(triageKeep), len(triageMaybe), len(triageDiscard))
		return nil
	},
}

// trash command

var trashCmd = &cobra.Command{
	Use:   "trash PATH...",
	Short: "Send files to the platform trash",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("MoveToTrash")
		if err != nil {
			return err
		}
		defer a.Close()
		return a.MoveToTrash(args)
	},
}

// history command

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent operations",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("History")
		if err != nil {
			return err
		}
		defer a.Close()

		ops, err := a.History(historyLimit)
		if err != nil {
			return err
		}
		for _, op := range ops {
			finished := "-"
			if op.FinishedAt != nil {
				finished = op.FinishedAt.UTC().Format("2006-01-02T15:04:05Z")
			}
			fmt.Printf("%d\t%s\t%s\t%s\t%s\n", op.ID, op.Operation, op.Status, finished,
				strings.TrimSpace(op.Parameters))
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd, configListCmd)

	projectCreateCmd.Flags().StringVar(&projectCreateOutput, "output", ".", "directory to create the project under")
	projectCmd.AddCommand(projectListCmd, projectCreateCmd, projectDeleteCmd, projectShowCmd,
		projectSetModeCmd, projectMigrateCmd, projectStatsCmd)

	folderAddCmd.Flags().StringVar(&folderAddMode, "mode", "move", "transfer mode for sorted files (move or copy)")
	folderCmd.AddCommand(folderAddCmd, folderRemoveCmd, folderStatsCmd)

	imagesCmd.AddCommand(imagesListCmd, imagesOutputsCmd, imagesURLCmd)

	thumbCmd.Flags().IntVar(&thumbSize, "size", 0, "bounding box edge in pixels (default from config)")

	triageCmd.Flags().StringVar(&triageProject, "project", "", "project directory")
	triageCmd.Flags().StringVar(&triageFolder, "folder", "", "folder id within the project")
	triageCmd.Flags().StringVar(&triageMode, "mode", "move", "transfer mode (move or copy)")
	triageCmd.Flags().StringSliceVar(&triageKeep, "keep", nil, "files classified as keep")
	triageCmd.Flags().StringSliceVar(&triageMaybe, "maybe", nil, "files classified as maybe")
	triageCmd.Flags().StringSliceVar(&triageDiscard, "discard", nil, "files to send to the trash")
	triageCmd.MarkFlagRequired("project")
	triageCmd.MarkFlagRequired("folder")

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of operations to show")

	rootCmd.AddCommand(configCmd, projectCmd, folderCmd, imagesCmd, thumbCmd, triageCmd, trashCmd, historyCmd)
}
