package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/uganda-geodata/pkg/ugdata"
)

var endpointsCmd = &cobra.Command{
	Use:   "endpoints",
	Short: "List the endpoints accepted by fetch",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return writeEndpoints(cmd, ugdata.Endpoints())
	},
}

func writeEndpoints(cmd *cobra.Command, endpoints []ugdata.Endpoint) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPATH\tARGS\tDESCRIPTION")
	for _, e := range endpoints {
		args := "<uuid>"
		if e.List {
			args = "--limit --page --sort-order"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Name, e.Path, args, e.Description)
	}
	return w.Flush()
}
