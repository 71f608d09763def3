package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/circuitgen/pkg/tier"
)

// profilesCommand prints the tier table in effect after config overrides.
func (c *CLI) profilesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "Show the difficulty tier profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(tier.All))
			for _, t := range tier.All {
				p := cfg.Profile(t)
				rows = append(rows, []string{
					t.String(),
					fmt.Sprintf("%d–%d", p.NodeMin, p.NodeMax),
					fmt.Sprintf("%.2f ± %.2f", p.Target, p.Band),
					fmt.Sprintf("%d", p.Trials),
					fmt.Sprintf("%.1f–%.1f", p.DegreeMin, p.DegreeMax),
					fmt.Sprintf("%d", p.Switches),
					fmt.Sprintf("%d–%d", p.DiodeMin, p.DiodeMax),
					fmt.Sprintf("%.2f", p.MinDiodeUsage),
				})
			}
			printTable([]string{"Tier", "Nodes", "Success", "Trials", "Degree", "Switches", "Diodes", "Diode use"}, rows)
			if c.configPath != "" {
				printDetail("Config: %s", c.configPath)
			}
			return nil
		},
	}
}
