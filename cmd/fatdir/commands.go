package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/aligator/fatdir"
	"github.com/aligator/fatdir/checkpoint"
)

var showAll bool

var lsCmd = &cobra.Command{
	Use:   "ls <image> [path]",
	Short: "List the entries of a directory in on-disk order",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withVolume(args[0], func(vol *fatdir.Volume) error {
			dir, err := vol.Root()
			if err != nil {
				return err
			}
			if len(args) == 2 && args[1] != "" && args[1] != "/" {
				dir, err = dir.OpenDir(args[1])
				if err != nil {
					return checkpoint.Wrap(err, fmt.Errorf("open %s", args[1]))
				}
			}

			entries, err := dir.List()
			if err != nil {
				return checkpoint.Wrap(err, fmt.Errorf("list %s", args[0]))
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer w.Flush()
			for _, e := range entries {
				if !showAll && e.Attributes().Has(fatdir.AttrHidden) {
					continue
				}
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
					e.Attributes(), e.Size(), formatTime(e.Modified()), e.ShortName(), e.Name())
			}
			return nil
		})
	},
}

var treeCmd = &cobra.Command{
	Use:   "tree <image>",
	Short: "Walk all files and directories of the image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withVolume(args[0], func(vol *fatdir.Volume) error {
			out := cmd.OutOrStdout()
			return afero.Walk(fatdir.NewFs(vol), "", func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				kind := "f"
				if info.IsDir() {
					kind = "d"
				}
				fmt.Fprintf(out, "%s %10d %s /%s\n", kind, info.Size(), formatTime(info.ModTime()), path)
				return nil
			})
		})
	},
}

var catCmd = &cobra.Command{
	Use:   "cat <image> <path>",
	Short: "Print the content of a file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withVolume(args[0], func(vol *fatdir.Volume) error {
			root, err := vol.Root()
			if err != nil {
				return err
			}
			file, err := root.OpenFile(args[1])
			if err != nil {
				return checkpoint.Wrap(err, fmt.Errorf("open %s", args[1]))
			}
			defer file.Close()

			_, err = io.Copy(cmd.OutOrStdout(), file)
			return err
		})
	},
}

var statCmd = &cobra.Command{
	Use:   "stat <image> <path>",
	Short: "Show the metadata of an entry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withVolume(args[0], func(vol *fatdir.Volume) error {
			root, err := vol.Root()
			if err != nil {
				return err
			}
			e, err := root.Find(args[1])
			if err != nil {
				return checkpoint.Wrap(err, fmt.Errorf("find %s", args[1]))
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintf(w, "Name:\t%s\n", e.Name())
			fmt.Fprintf(w, "Short name:\t%s\n", e.ShortName())
			fmt.Fprintf(w, "Attributes:\t%s\n", e.Attributes())
			fmt.Fprintf(w, "Directory:\t%t\n", e.IsDir())
			fmt.Fprintf(w, "Size:\t%d\n", e.Size())
			fmt.Fprintf(w, "First cluster:\t%d\n", e.FirstCluster())
			fmt.Fprintf(w, "Created:\t%s\n", formatTime(e.Created()))
			fmt.Fprintf(w, "Accessed:\t%s\n", e.Accessed().Format("2006-01-02"))
			fmt.Fprintf(w, "Modified:\t%s\n", formatTime(e.Modified()))
			return nil
		})
	},
}

var infoCmd = &cobra.Command{
	Use:   "info <image>",
	Short: "Show the volume geometry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withVolume(args[0], func(vol *fatdir.Volume) error {
			fmt.Fprintf(cmd.OutOrStdout(), "Opened volume '%v' with type %v, cluster size %d\n",
				vol.Label(), vol.FATType(), vol.ClusterSize())
			return nil
		})
	},
}

func init() {
	lsCmd.Flags().BoolVarP(&showAll, "all", "a", false, "also list hidden entries")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}
