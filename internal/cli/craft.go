package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/osse101/ashfall/internal/activity"
	"github.com/osse101/ashfall/internal/bootstrap"
	"github.com/osse101/ashfall/internal/craft"
	"github.com/osse101/ashfall/internal/crafting"
	"github.com/osse101/ashfall/internal/domain"
	"github.com/osse101/ashfall/internal/event"
	"github.com/osse101/ashfall/internal/inventory"
	"github.com/osse101/ashfall/internal/selection"
)

// CrafterID is the id of the crafter simulated by craft and disassemble
const CrafterID = "cli"

// ErrCraftUnfinished is returned when a craft is still running after its moves were spent
var ErrCraftUnfinished = errors.New("craft did not finish")

// actorFlags describes the simulated crafter shared by craft and disassemble
type actorFlags struct {
	carried []string
	nearby  []string
	skills  []string
	learned []string
	books   []string
	yes     bool
}

func (f *actorFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.carried, "item", nil, "Carried item as type[=count][@charges] (repeatable)")
	cmd.Flags().StringArrayVar(&f.nearby, "map-item", nil, "Item on the map as type[=count][@charges] (repeatable)")
	cmd.Flags().StringArrayVar(&f.skills, "skill", nil, "Skill as name=level (repeatable)")
	cmd.Flags().StringArrayVar(&f.learned, "learned", nil, "Recipe the crafter already knows (repeatable)")
	cmd.Flags().StringArrayVar(&f.books, "read", nil, "Book the crafter reads before acting; it must be carried or nearby (repeatable)")
	cmd.Flags().BoolVar(&f.yes, "yes", false, "Answer yes to every prompt (default from config)")
}

// session is a crafting service over memory stores plus the simulated crafter
type session struct {
	data  *bootstrap.GameData
	svc   crafting.Service
	actor *craft.Actor
}

func newSession(ctx context.Context, f *actorFlags) (*session, error) {
	data, err := bootstrap.LoadData(ctx, appConfig.DataDir, appConfig.SuggestCacheSize)
	if err != nil {
		return nil, err
	}
	carried, err := parseCounted(f.carried, data.Catalog)
	if err != nil {
		return nil, err
	}
	nearby, err := parseCounted(f.nearby, data.Catalog)
	if err != nil {
		return nil, err
	}
	skills, err := parseSkills(f.skills)
	if err != nil {
		return nil, err
	}

	bus := event.NewMemoryBus()
	if err := bootstrap.RegisterEventHandlers(bus); err != nil {
		return nil, err
	}
	svc := crafting.NewService(
		data.Dictionary,
		data.Catalog,
		crafting.NewMemoryKnownRecipes(),
		activity.NewScheduler(),
		activity.NewMemoryStore(),
		bus,
		craft.Headless{Answer: f.yes || appConfig.PromptDefault},
	)
	for _, ident := range f.learned {
		if _, err := svc.LearnRecipe(ctx, CrafterID, ident, crafting.LearnSourceManual); err != nil {
			return nil, err
		}
	}

	actor := &craft.Actor{
		ID:     CrafterID,
		Skills: skills,
		View: inventory.NewView(
			inventory.New(data.Catalog, nearby...),
			inventory.New(data.Catalog, carried...),
		),
	}
	for _, book := range f.books {
		if _, err := svc.LearnFromBook(ctx, actor, book); err != nil {
			return nil, err
		}
	}
	return &session{data: data, svc: svc, actor: actor}, nil
}

// NewCraftCommand creates the craft command
func NewCraftCommand() *cobra.Command {
	var (
		actor   actorFlags
		batch   int
		long    bool
		batches bool
	)

	cmd := &cobra.Command{
		Use:   "craft <recipe>",
		Short: "Simulate crafting a recipe",
		Long: `Craft a recipe for a simulated crafter holding the given items, spending
all the moves the craft needs at once. Missing components are listed.

Examples:
  ashfall craft torch --item stick --item rag
  ashfall craft torch --batch 4 --item stick=4 --item rag=4
  ashfall craft frame --skill fabrication=1 --item nails=8 --item plank=2 --map-item hammer
  ashfall craft water_clean --item water=1 --item pot --item hotplate@10 --item bottle_plastic
  ashfall craft box --read manual_carpentry --skill fabrication=1 --item plank=8 --batches`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := newSession(ctx, &actor)
			if err != nil {
				return err
			}
			if batches {
				sizes, err := s.svc.AvailableBatchSizes(ctx, s.actor, args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd.OutOrStdout(), sizes)
				}
				printBatchSizes(cmd.OutOrStdout(), args[0], sizes)
				return nil
			}

			c, err := s.svc.StartCraft(ctx, s.actor, args[0], batch, long)
			if err != nil {
				var missing *selection.Error
				if errors.As(err, &missing) {
					printMissing(cmd.OutOrStdout(), missing.Missing.Describe(s.data.Catalog.Name, batch))
				}
				return err
			}
			r, err := c.Recipe()
			if err != nil {
				return err
			}

			results, err := s.svc.Tick(ctx, r.BatchTime(batch))
			if err != nil {
				var missing *selection.Error
				if errors.As(err, &missing) {
					printMissing(cmd.OutOrStdout(), missing.Missing.Describe(s.data.Catalog.Name, batch))
				}
				return err
			}
			if len(results) == 0 {
				return fmt.Errorf("%w: %s", ErrCraftUnfinished, c.ID())
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), results[0])
			}
			printResult(cmd.OutOrStdout(), results[0], s)
			return nil
		},
	}

	actor.register(cmd)
	cmd.Flags().IntVar(&batch, "batch", 1, "Number of units to craft")
	cmd.Flags().BoolVar(&long, "long", false, "Repeat the craft until interrupted (recorded only)")
	cmd.Flags().BoolVar(&batches, "batches", false, "List the batch sizes that could be crafted now instead of crafting")
	return cmd
}

// NewDisassembleCommand creates the disassemble command
func NewDisassembleCommand() *cobra.Command {
	var actor actorFlags

	cmd := &cobra.Command{
		Use:   "disassemble <item>",
		Short: "Simulate taking an item apart",
		Long: `Disassemble one item with the first reversible recipe that produces it.
The crafter needs the item and the recipe's tools.

Examples:
  ashfall disassemble frame --item frame --item hammer --skill fabrication=1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := newSession(ctx, &actor)
			if err != nil {
				return err
			}
			res, err := s.svc.Disassemble(ctx, s.actor, args[0])
			if err != nil {
				var missing *selection.Error
				if errors.As(err, &missing) {
					printMissing(cmd.OutOrStdout(), missing.Missing.Describe(s.data.Catalog.Name, 1))
				}
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), res)
			}
			w := newTable(cmd.OutOrStdout())
			fmt.Fprintf(w, "Recipe:\t%s\n", res.Recipe)
			fmt.Fprintf(w, "Removed:\t%s\n", describeItems(res.Removed, s.data.Catalog.Name))
			fmt.Fprintf(w, "Recovered:\t%s\n", describeItems(res.Recovered, s.data.Catalog.Name))
			fmt.Fprintf(w, "Learned:\t%t\n", res.Learned)
			return w.Flush()
		},
	}

	actor.register(cmd)
	return cmd
}

func printBatchSizes(out io.Writer, ident string, sizes []int) {
	if len(sizes) == 0 {
		fmt.Fprintf(out, "Cannot craft %s with what is at hand\n", ident)
		return
	}
	parts := make([]string, len(sizes))
	for i, n := range sizes {
		parts[i] = strconv.Itoa(n)
	}
	fmt.Fprintf(out, "Batch sizes for %s: %s\n", ident, strings.Join(parts, " "))
}

func printMissing(out io.Writer, lines []string) {
	fmt.Fprintln(out, "Missing:")
	for _, l := range lines {
		fmt.Fprintf(out, "  %s\n", l)
	}
}

func printResult(out io.Writer, res *crafting.Result, s *session) {
	name := s.data.Catalog.Name
	w := newTable(out)
	fmt.Fprintf(w, "Recipe:\t%s x%d\n", res.Recipe, res.Batch)
	if res.Cancelled {
		fmt.Fprintln(w, "Cancelled:\ttrue")
		_ = w.Flush()
		return
	}
	fmt.Fprintf(w, "Consumed:\t%s\n", describeItems(res.Consumed, name))
	fmt.Fprintf(w, "Produced:\t%s\n", describeItems(res.Produced, name))
	if len(res.Byproducts) > 0 {
		fmt.Fprintf(w, "Byproducts:\t%s\n", describeItems(res.Byproducts, name))
	}
	fmt.Fprintf(w, "Learned:\t%t\n", res.Learned)
	fmt.Fprintf(w, "Carrying:\t%s\n", describeItems(s.actor.View.Player.Items(), name))
	_ = w.Flush()
}

// describeItems groups items by type as "2 plank, nails (8)"
func describeItems(items []domain.Item, name func(string) string) string {
	if len(items) == 0 {
		return "-"
	}
	counts := make(map[string]int)
	charges := make(map[string]int)
	for _, it := range items {
		counts[it.TypeID]++
		charges[it.TypeID] += it.Charges
	}
	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		switch {
		case counts[id] == 1 && charges[id] > 0:
			parts = append(parts, fmt.Sprintf("%s (%d)", name(id), charges[id]))
		case counts[id] == 1:
			parts = append(parts, name(id))
		default:
			parts = append(parts, fmt.Sprintf("%d %s", counts[id], name(id)))
		}
	}
	return strings.Join(parts, ", ")
}
