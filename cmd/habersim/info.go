package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/habersim/internal/catalyst"
	"github.com/san-kum/habersim/internal/config"
	"github.com/san-kum/habersim/internal/experiment"
)

func showPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Println("presets:")
		for _, p := range config.ListPresets() {
			fmt.Printf("  %s\n", p)
		}
		fmt.Printf("integrators: %s\n", strings.Join(experiment.NewRegistry().ListIntegrators(), ", "))
		return nil
	}

	cfg := config.GetPreset(args[0])
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(cfg)
}

func listCatalysts(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CATALYST\tPRESSURE\tSTART TEMPS (°C)\tBEDS")

	for _, cat := range catalyst.All() {
		r := config.Ranges(cat)
		temps := make([]string, len(r.StartTemps))
		for i, t := range r.StartTemps {
			temps[i] = fmt.Sprintf("%d [%d..%d]", t.Default, t.Min, t.Max)
		}
		fmt.Fprintf(w, "%s\t%d [%d..%d]\t%s\t%d..%d\n",
			cat,
			r.Pressure.Default, r.Pressure.Min, r.Pressure.Max,
			strings.Join(temps, ", "),
			r.BedCount.Min, r.BedCount.Max,
		)
	}

	return w.Flush()
}
