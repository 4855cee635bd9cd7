package cli

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/spf13/cobra"

	"github.com/osse101/ashfall/internal/bootstrap"
	"github.com/osse101/ashfall/internal/domain"
	"github.com/osse101/ashfall/internal/event"
	"github.com/osse101/ashfall/internal/trap"
)

var victimKinds = map[string]trap.VictimKind{
	"player":  trap.KindPlayer,
	"npc":     trap.KindNPC,
	"monster": trap.KindMonster,
}

var victimSizes = map[string]trap.Size{
	"tiny":   trap.SizeTiny,
	"small":  trap.SizeSmall,
	"medium": trap.SizeMedium,
	"large":  trap.SizeLarge,
	"huge":   trap.SizeHuge,
}

// NewTrapsCommand creates the traps command with subcommands
func NewTrapsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "traps",
		Short: "Inspect and trigger traps",
		Long: `List the loaded traps or trigger one against a victim.

Examples:
  ashfall traps list
  ashfall traps fire tr_beartrap --victim you
  ashfall traps fire tr_landmine --victim zombie --kind monster --seed 7
  ashfall traps fire tr_crossbow`,
	}

	cmd.AddCommand(newTrapsListCommand())
	cmd.AddCommand(newTrapsFireCommand())

	return cmd
}

func newTrapsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List traps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := bootstrap.LoadData(cmd.Context(), appConfig.DataDir, appConfig.SuggestCacheSize)
			if err != nil {
				return err
			}
			var defs []trap.Def
			for _, id := range data.Traps.IDs() {
				t, _ := data.Traps.Get(id)
				defs = append(defs, t.Def)
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), defs)
			}

			w := newTable(cmd.OutOrStdout())
			fmt.Fprintln(w, "Trap\tName\tAction\tVisibility\tAvoidance\tDifficulty")
			fmt.Fprintln(w, "────\t────\t──────\t──────────\t─────────\t──────────")
			for _, d := range defs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n", d.ID, d.Name, d.Action, d.Visibility, d.Avoidance, d.Difficulty)
			}
			return w.Flush()
		},
	}
}

func newTrapsFireCommand() *cobra.Command {
	var (
		victim string
		kind   string
		size   string
		dodge  int
		seed   uint64
	)

	cmd := &cobra.Command{
		Use:   "fire <trap>",
		Short: "Trigger a trap",
		Long: `Trigger a trap against a victim and print the outcome. Without --victim
the trap goes off with nobody on it. --seed makes the rolls repeatable.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := bootstrap.LoadData(cmd.Context(), appConfig.DataDir, appConfig.SuggestCacheSize)
			if err != nil {
				return err
			}

			var v *trap.Victim
			if victim != "" {
				k, ok := victimKinds[kind]
				if !ok {
					return fmt.Errorf("%w: unknown victim kind '%s'", domain.ErrInvalidInput, kind)
				}
				sz, ok := victimSizes[size]
				if !ok {
					return fmt.Errorf("%w: unknown victim size '%s'", domain.ErrInvalidInput, size)
				}
				v = &trap.Victim{Name: victim, Kind: k, Size: sz, Dodge: dodge}
			}

			rnd := trap.DefaultRand
			if seed != 0 {
				rnd = rand.New(rand.NewPCG(seed, seed)).Float64
			}

			bus := event.NewMemoryBus()
			if err := bootstrap.RegisterEventHandlers(bus); err != nil {
				return err
			}
			out, err := data.Traps.Fire(cmd.Context(), bus, args[0], v, rnd)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), out)
			}
			printOutcome(cmd, out, data.Catalog.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&victim, "victim", "", "Name of the victim (empty: nobody)")
	cmd.Flags().StringVar(&kind, "kind", "player", "Victim kind: player, npc or monster")
	cmd.Flags().StringVar(&size, "size", "medium", "Victim size: tiny, small, medium, large or huge")
	cmd.Flags().IntVar(&dodge, "dodge", 0, "Victim dodge skill")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed (0: random)")
	return cmd
}

func printOutcome(cmd *cobra.Command, out trap.Outcome, name func(string) string) {
	w := newTable(cmd.OutOrStdout())
	if out.Skipped {
		fmt.Fprintln(w, "Skipped:\ttrue")
		_ = w.Flush()
		return
	}
	for _, m := range out.Messages {
		fmt.Fprintf(w, "Message:\t%s\n", m)
	}
	if out.Sound != "" {
		fmt.Fprintf(w, "Sound:\t%s (%d)\n", out.Sound, out.Volume)
	}
	parts := make([]string, 0, len(out.Damage))
	for p := range out.Damage {
		parts = append(parts, string(p))
	}
	sort.Strings(parts)
	for _, p := range parts {
		fmt.Fprintf(w, "Damage:\t%s %d\n", p, out.Damage[trap.BodyPart(p)])
	}
	for _, e := range out.Effects {
		fmt.Fprintf(w, "Effect:\t%s\n", e)
	}
	if out.Moves > 0 {
		fmt.Fprintf(w, "Moves lost:\t%d\n", out.Moves)
	}
	if out.Explosion > 0 {
		fmt.Fprintf(w, "Explosion:\t%d\n", out.Explosion)
	}
	if len(out.Spawned) > 0 {
		fmt.Fprintf(w, "Left behind:\t%s\n", describeItems(out.Spawned, name))
	}
	fmt.Fprintf(w, "Removed:\t%t\n", out.Removed)
	_ = w.Flush()
}
