package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/osse101/ashfall/internal/bootstrap"
	"github.com/osse101/ashfall/internal/domain"
	"github.com/osse101/ashfall/internal/recipe"
	"github.com/osse101/ashfall/internal/requirement"
)

// ErrRejectedDefinitions is returned by recipes check --strict when any
// definition was skipped
var ErrRejectedDefinitions = errors.New("recipe definitions were rejected")

// SuggestLimit is how many near matches recipes show offers for an unknown name
const SuggestLimit = 5

// NewRecipesCommand creates the recipes command with subcommands
func NewRecipesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "Inspect recipe definitions",
		Long: `Load and inspect the recipe dictionary.

Examples:
  ashfall recipes check --strict
  ashfall recipes list --category other --subcategory parts
  ashfall recipes list --component plank
  ashfall recipes show frame
  ashfall recipes show 3`,
	}

	cmd.AddCommand(newRecipesCheckCommand())
	cmd.AddCommand(newRecipesListCommand())
	cmd.AddCommand(newRecipesShowCommand())

	return cmd
}

func newRecipesCheckCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the data directory",
		Long: `Load items, recipes and traps and report every recipe definition that
was skipped. With --strict any skipped definition fails the command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := bootstrap.LoadData(cmd.Context(), appConfig.DataDir, appConfig.SuggestCacheSize)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "items: %d\nrecipes: %d\ntraps: %d\nrejected: %d\n",
				data.Catalog.Len(), data.Dictionary.Len(), data.Traps.Len(), len(data.Rejected))
			for _, r := range data.Rejected {
				fmt.Fprintf(out, "  %v\n", r)
			}
			for _, a := range data.Traps.Unknown {
				fmt.Fprintf(out, "unknown trap action: %s\n", a)
			}
			if strict && len(data.Rejected) > 0 {
				return fmt.Errorf("%w: %d", ErrRejectedDefinitions, len(data.Rejected))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when any definition is rejected")
	return cmd
}

func newRecipesListCommand() *cobra.Command {
	var (
		category    string
		subcategory string
		component   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recipes",
		Long: `List recipes in dictionary order, optionally filtered by category and
subcategory or by a component they consume.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if subcategory != "" && category == "" {
				return fmt.Errorf("%w: --subcategory needs --category", domain.ErrInvalidInput)
			}
			data, err := bootstrap.LoadData(cmd.Context(), appConfig.DataDir, appConfig.SuggestCacheSize)
			if err != nil {
				return err
			}

			var rs []*recipe.Recipe
			switch {
			case component != "":
				rs = data.Dictionary.OfComponent(component)
			case category != "":
				rs = data.Dictionary.InCategory(category, subcategory)
			default:
				rs = data.Dictionary.All()
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), rs)
			}
			printRecipeTable(cmd.OutOrStdout(), rs)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Filter by category")
	cmd.Flags().StringVar(&subcategory, "subcategory", "", "Filter by subcategory (requires --category)")
	cmd.Flags().StringVar(&component, "component", "", "Only recipes consuming this item type")
	return cmd
}

func printRecipeTable(out io.Writer, rs []*recipe.Recipe) {
	w := newTable(out)
	fmt.Fprintln(w, "Index\tRecipe\tResult\tCategory\tSkill\tTime")
	fmt.Fprintln(w, "─────\t──────\t──────\t────────\t─────\t────")
	for _, r := range rs {
		category := r.Category
		if r.Subcategory != "" {
			category += "/" + r.Subcategory
		}
		skill := "-"
		if r.SkillUsed != "" {
			skill = fmt.Sprintf("%s(%d)", r.SkillUsed, r.Difficulty)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\n", r.ID, r.Ident, r.Result, category, skill, r.Time)
	}
	_ = w.Flush()
}

func newRecipesShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name|index>",
		Short: "Show one recipe",
		Long: `Show a recipe by name, or by dictionary index when no recipe has that
name. Unknown names list the closest recipe names.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := bootstrap.LoadData(cmd.Context(), appConfig.DataDir, appConfig.SuggestCacheSize)
			if err != nil {
				return err
			}

			r, ok := data.Dictionary.ByName(args[0])
			if !ok {
				if id, err := strconv.Atoi(args[0]); err == nil {
					r, ok = data.Dictionary.ByID(id)
				}
			}
			if !ok {
				err := fmt.Errorf("%w: '%s'", domain.ErrRecipeNotFound, args[0])
				if near := data.Dictionary.Suggest(args[0], SuggestLimit); len(near) > 0 {
					err = fmt.Errorf("%w (did you mean: %s)", err, strings.Join(near, ", "))
				}
				return err
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), r)
			}
			printRecipe(cmd.OutOrStdout(), r, data.Catalog.Name)
			return nil
		},
	}
}

func printRecipe(out io.Writer, r *recipe.Recipe, name func(string) string) {
	w := newTable(out)
	fmt.Fprintf(w, "Recipe:\t%s (#%d)\n", r.Ident, r.ID)
	fmt.Fprintf(w, "Result:\t%s x%d\n", name(r.Result), r.ResultMult)
	fmt.Fprintf(w, "Category:\t%s/%s\n", r.Category, r.Subcategory)
	fmt.Fprintf(w, "Skill:\t%s(%d)\n", r.SkillUsed, r.Difficulty)
	fmt.Fprintf(w, "Other skills:\t%s\n", r.RequiredSkillsString())
	fmt.Fprintf(w, "Time:\t%d\n", r.Time)
	fmt.Fprintf(w, "Autolearn:\t%t\n", r.IsAutoLearnable())
	fmt.Fprintf(w, "Reversible:\t%t\n", r.Reversible)
	for _, line := range describeSlots(r.Requirements.Slots(requirement.KindTool), name) {
		fmt.Fprintf(w, "Tool:\t%s\n", line)
	}
	for _, line := range describeSlots(r.Requirements.Slots(requirement.KindComponent), name) {
		fmt.Fprintf(w, "Component:\t%s\n", line)
	}
	for _, bp := range r.Byproducts {
		fmt.Fprintf(w, "Byproduct:\t%s x%d\n", name(bp.Result), max(bp.Amount, 1))
	}
	for _, b := range r.Booksets {
		if !b.Hidden {
			fmt.Fprintf(w, "Book:\t%s (level %d)\n", name(b.Book), b.SkillLevel)
		}
	}
	_ = w.Flush()
}
