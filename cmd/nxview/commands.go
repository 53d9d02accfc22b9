package main

import (
	"fmt"

	"github.com/phanxgames/nxview"
	"github.com/spf13/cobra"
)

func newSearchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "search QUERY",
		Short: "Print the path of every node whose name contains QUERY, ignoring case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.runConfig(cmd)
			if err != nil {
				return err
			}
			set, m, err := requireArchives(cfg.Assets, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer m.Close()

			out := cmd.OutOrStdout()
			results := nxview.Search(args[0], set.Roots())
			for _, p := range results {
				fmt.Fprintln(out, p)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d results\n", len(results))
			return nil
		},
	}
}

func newResolveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve PATH",
		Short: "Resolve PATH and describe the node it names",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.runConfig(cmd)
			if err != nil {
				return err
			}
			set, m, err := requireArchives(cfg.Assets, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer m.Close()

			n, err := set.Resolve(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), nxview.Describe(n))
			return nil
		},
	}
}

func newLsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ls [PATH]",
		Short: "List the children of PATH, or the mounted archives when PATH is omitted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.runConfig(cmd)
			if err != nil {
				return err
			}
			set, m, err := requireArchives(cfg.Assets, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer m.Close()

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, r := range set.Roots() {
					fmt.Fprintf(out, "%s [%d children]\n", r.Label, len(r.Node.Children()))
				}
				return nil
			}
			n, err := set.Resolve(args[0])
			if err != nil {
				return err
			}
			for _, c := range n.Children() {
				fmt.Fprintln(out, nxview.Describe(c))
			}
			return nil
		},
	}
}

func newExportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "export PATH OUT.png",
		Short: "Write the bitmap at PATH, or its first bitmap child, as a PNG",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.runConfig(cmd)
			if err != nil {
				return err
			}
			set, m, err := requireArchives(cfg.Assets, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer m.Close()

			if err := nxview.ExportPNG(set, nxview.NodeDecoder, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[1])
			return nil
		},
	}
}
