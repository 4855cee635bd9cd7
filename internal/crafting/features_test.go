package crafting_test

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/cucumber/godog"
	"github.com/google/uuid"

	"github.com/osse101/ashfall/internal/activity"
	"github.com/osse101/ashfall/internal/bootstrap"
	"github.com/osse101/ashfall/internal/craft"
	"github.com/osse101/ashfall/internal/crafting"
	"github.com/osse101/ashfall/internal/domain"
	"github.com/osse101/ashfall/internal/event"
	"github.com/osse101/ashfall/internal/inventory"
	"github.com/osse101/ashfall/internal/selection"
	"github.com/osse101/ashfall/internal/trap"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

var publishedTypes = []string{
	domain.EventTypeCraftStarted,
	domain.EventTypeCraftCompleted,
	domain.EventTypeCraftBlocked,
	domain.EventTypeCraftCancelled,
	domain.EventTypeItemDisassembled,
	domain.EventTypeRecipeLearned,
	domain.EventTypeTrapTriggered,
}

type craftingContext struct {
	data   *bootstrap.GameData
	bus    *event.MemoryBus
	known  *crafting.MemoryKnownRecipes
	svc    crafting.Service
	actor  *craft.Actor
	events map[string]int

	craftID uuid.UUID
	batch   int
	results []*crafting.Result
	err     error

	disassembled *crafting.DisassembleResult
	outcome      trap.Outcome
}

func (cc *craftingContext) reset() {
	*cc = craftingContext{events: make(map[string]int)}
}

// Setup steps

func (cc *craftingContext) theBundledGameData(ctx context.Context) error {
	data, err := bootstrap.LoadData(ctx, "../../data", 0)
	if err != nil {
		return err
	}
	if len(data.Rejected) > 0 {
		return fmt.Errorf("bundled data rejected %d recipes: %v", len(data.Rejected), data.Rejected)
	}
	cc.data = data
	cc.bus = event.NewMemoryBus()
	for _, typ := range publishedTypes {
		cc.bus.Subscribe(event.Type(typ), func(_ context.Context, evt event.Event) error {
			cc.events[string(evt.Type)]++
			return nil
		})
	}
	cc.known = crafting.NewMemoryKnownRecipes()
	cc.svc = crafting.NewService(cc.data.Dictionary, cc.data.Catalog, cc.known,
		activity.NewScheduler(), activity.NewMemoryStore(), cc.bus, craft.Headless{Answer: true})
	return nil
}

func (cc *craftingContext) aCrafterNamed(name string) error {
	cc.actor = &craft.Actor{
		ID:     name,
		Skills: make(map[string]int),
		View: inventory.NewView(
			inventory.New(cc.data.Catalog),
			inventory.New(cc.data.Catalog),
		),
	}
	return nil
}

func (cc *craftingContext) theCrafterHasSkills(table *godog.Table) error {
	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header
		}
		level, err := strconv.Atoi(row.Cells[1].Value)
		if err != nil {
			return err
		}
		cc.actor.Skills[row.Cells[0].Value] = level
	}
	return nil
}

// units builds count units of typeID the way the crafter would hold them
func (cc *craftingContext) units(typeID string, count int) ([]domain.Item, error) {
	t, ok := cc.data.Catalog.ItemType(typeID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownItem, typeID)
	}
	if t.CountByCharges() {
		return []domain.Item{{TypeID: typeID, Charges: count}}, nil
	}
	items := make([]domain.Item, count)
	for i := range items {
		items[i] = domain.Item{TypeID: typeID, Charges: t.DefaultCharges}
	}
	return items, nil
}

func (cc *craftingContext) fill(inv *inventory.Inventory, table *godog.Table) error {
	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header
		}
		count, err := strconv.Atoi(row.Cells[1].Value)
		if err != nil {
			return err
		}
		items, err := cc.units(row.Cells[0].Value, count)
		if err != nil {
			return err
		}
		inv.Add(items...)
	}
	return nil
}

func (cc *craftingContext) theCrafterCarries(table *godog.Table) error {
	return cc.fill(cc.actor.View.Player, table)
}

func (cc *craftingContext) theMapHolds(table *godog.Table) error {
	return cc.fill(cc.actor.View.Map, table)
}

func (cc *craftingContext) theCrafterCarriesAWithCharges(typeID string, charges int) error {
	cc.actor.View.Player.Add(domain.Item{TypeID: typeID, Charges: charges})
	return nil
}

func (cc *craftingContext) theCrafterPicksUp(count int, typeID string) error {
	items, err := cc.units(typeID, count)
	if err != nil {
		return err
	}
	cc.actor.Receive(items...)
	return nil
}

// Crafting steps

func (cc *craftingContext) theCrafterStartsCraftingN(ctx context.Context, batch int, ident string) error {
	cc.batch = batch
	cmd, err := cc.svc.StartCraft(ctx, cc.actor, ident, batch, false)
	cc.err = err
	if cmd != nil {
		cc.craftID = cmd.ID()
	}
	return nil
}

func (cc *craftingContext) theCrafterStartsCrafting(ctx context.Context, ident string) error {
	return cc.theCrafterStartsCraftingN(ctx, 1, ident)
}

func (cc *craftingContext) movesPass(ctx context.Context, moves int) error {
	results, err := cc.svc.Tick(ctx, moves)
	cc.results = append(cc.results, results...)
	if err != nil {
		cc.err = err
	}
	return nil
}

func (cc *craftingContext) theCraftFinishes(ctx context.Context) error {
	cmd, ok := cc.svc.Craft(cc.craftID)
	if !ok {
		return fmt.Errorf("craft %s is not tracked", cc.craftID)
	}
	r, err := cmd.Recipe()
	if err != nil {
		return err
	}
	return cc.movesPass(ctx, r.BatchTime(cmd.Batch()))
}

func (cc *craftingContext) theCrafterCraftsN(ctx context.Context, batch int, ident string) error {
	if err := cc.theCrafterStartsCraftingN(ctx, batch, ident); err != nil || cc.err != nil {
		return err
	}
	return cc.theCraftFinishes(ctx)
}

func (cc *craftingContext) theCrafterCrafts(ctx context.Context, ident string) error {
	return cc.theCrafterCraftsN(ctx, 1, ident)
}

func (cc *craftingContext) theCrafterRetriesTheCraft(ctx context.Context) error {
	res, err := cc.svc.RetryCraft(ctx, cc.craftID)
	cc.err = err
	if res != nil {
		cc.results = append(cc.results, res)
	}
	return nil
}

func (cc *craftingContext) theCrafterReads(ctx context.Context, book string) error {
	_, err := cc.svc.LearnFromBook(ctx, cc.actor, book)
	return err
}

func (cc *craftingContext) theCrafterSuspendsTheCraft(ctx context.Context) error {
	return cc.svc.Suspend(ctx, cc.craftID)
}

func (cc *craftingContext) theCrafterResumesTheCraft(ctx context.Context) error {
	_, err := cc.svc.Resume(ctx, cc.actor, cc.craftID)
	return err
}

// Crafting assertions

func (cc *craftingContext) theCraftIsComplete() error {
	if cc.err != nil {
		return fmt.Errorf("expected the craft to complete, got error: %w", cc.err)
	}
	for _, res := range cc.results {
		if res.CraftID == cc.craftID && !res.Cancelled {
			return nil
		}
	}
	return fmt.Errorf("craft %s did not complete", cc.craftID)
}

func (cc *craftingContext) theCraftIsStillRunning() error {
	if cc.err != nil {
		return cc.err
	}
	if len(cc.results) > 0 {
		return fmt.Errorf("expected no finished crafts, got %d", len(cc.results))
	}
	if _, ok := cc.svc.Craft(cc.craftID); !ok {
		return fmt.Errorf("craft %s is not tracked", cc.craftID)
	}
	return nil
}

func (cc *craftingContext) theCraftIsBlockedOn(typeID string) error {
	var missing *selection.Error
	if !errors.As(cc.err, &missing) {
		return fmt.Errorf("expected missing components, got: %v", cc.err)
	}
	for _, line := range missing.Missing.Describe(cc.data.Catalog.Name, cc.batch) {
		if strings.Contains(strings.ToLower(line), strings.ToLower(cc.data.Catalog.Name(typeID))) {
			cc.err = nil
			return nil
		}
	}
	return fmt.Errorf("'%s' is not among the missing components: %v", typeID, missing.Missing.Describe(cc.data.Catalog.Name, cc.batch))
}

func (cc *craftingContext) theCraftFailsWith(msg string) error {
	return failedWith(cc.err, msg)
}

func failedWith(err error, msg string) error {
	if err == nil {
		return fmt.Errorf("expected an error containing '%s'", msg)
	}
	if !strings.Contains(strings.ToLower(err.Error()), strings.ToLower(msg)) {
		return fmt.Errorf("expected an error containing '%s', got: %v", msg, err)
	}
	return nil
}

func (cc *craftingContext) theCrafterCarriesN(count int, typeID string) error {
	if got := cc.actor.View.Player.Count(typeID); got != count {
		return fmt.Errorf("expected the crafter to carry %d %s, got %d", count, typeID, got)
	}
	return nil
}

func (cc *craftingContext) theMapHoldsN(count int, typeID string) error {
	if got := cc.actor.View.Map.Count(typeID); got != count {
		return fmt.Errorf("expected the map to hold %d %s, got %d", count, typeID, got)
	}
	return nil
}

func (cc *craftingContext) theCrafterHasChargesOf(charges int, typeID string) error {
	if got := cc.actor.View.Player.Charges(typeID); got != charges {
		return fmt.Errorf("expected %d charges of %s, got %d", charges, typeID, got)
	}
	return nil
}

func (cc *craftingContext) theCrafterKnows(ctx context.Context, ident string) error {
	known, err := cc.known.IsKnown(ctx, cc.actor.ID, ident)
	if err != nil {
		return err
	}
	if !known {
		return fmt.Errorf("expected %s to know %s", cc.actor.ID, ident)
	}
	return nil
}

func (cc *craftingContext) theCrafterHasSuspendedCrafts(ctx context.Context, count int) error {
	recs, err := cc.svc.Suspended(ctx, cc.actor.ID)
	if err != nil {
		return err
	}
	if len(recs) != count {
		return fmt.Errorf("expected %d suspended crafts, got %d", count, len(recs))
	}
	return nil
}

func (cc *craftingContext) theEventWasPublished(typ string) error {
	if cc.events[typ] == 0 {
		return fmt.Errorf("event %s was not published (seen: %v)", typ, cc.events)
	}
	return nil
}

func (cc *craftingContext) theEventWasNotPublished(typ string) error {
	if n := cc.events[typ]; n > 0 {
		return fmt.Errorf("event %s was published %d times", typ, n)
	}
	return nil
}

// Disassembly steps

func (cc *craftingContext) theCrafterDisassembles(ctx context.Context, typeID string) error {
	cc.disassembled, cc.err = cc.svc.Disassemble(ctx, cc.actor, typeID)
	return nil
}

func (cc *craftingContext) theDisassemblySucceeds() error {
	if cc.err != nil {
		return fmt.Errorf("expected the disassembly to succeed, got error: %w", cc.err)
	}
	if cc.disassembled == nil {
		return errors.New("no disassembly result")
	}
	return nil
}

// Trap steps

func (cc *craftingContext) setsOff(ctx context.Context, kind trap.VictimKind, size trap.Size, name, id string, roll float64) error {
	v := &trap.Victim{Name: name, Kind: kind, Size: size}
	out, err := cc.data.Traps.Fire(ctx, cc.bus, id, v, func() float64 { return roll })
	cc.outcome, cc.err = out, err
	return err
}

func (cc *craftingContext) aPlayerSetsOff(ctx context.Context, name, id string, roll float64) error {
	return cc.setsOff(ctx, trap.KindPlayer, trap.SizeMedium, name, id, roll)
}

func (cc *craftingContext) aTinyMonsterSetsOff(ctx context.Context, name, id string, roll float64) error {
	return cc.setsOff(ctx, trap.KindMonster, trap.SizeTiny, name, id, roll)
}

func (cc *craftingContext) theVictimTakesDamage(n int) error {
	if got := cc.outcome.TotalDamage(); got != n {
		return fmt.Errorf("expected %d damage, got %d", n, got)
	}
	return nil
}

func (cc *craftingContext) theTrapIsRemoved() error {
	if !cc.outcome.Removed {
		return errors.New("expected the trap to be removed")
	}
	return nil
}

func (cc *craftingContext) theTrapIsSkipped() error {
	if !cc.outcome.Skipped {
		return errors.New("expected the trap to skip the victim")
	}
	return nil
}

// InitializeScenario registers the crafting, disassembly and trap steps
func InitializeScenario(sc *godog.ScenarioContext) {
	cc := &craftingContext{}

	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		cc.reset()
		return ctx, nil
	})

	sc.Step(`^the bundled game data$`, cc.theBundledGameData)
	sc.Step(`^a crafter named "([^"]*)"$`, cc.aCrafterNamed)
	sc.Step(`^the crafter has skills:$`, cc.theCrafterHasSkills)
	sc.Step(`^the crafter carries:$`, cc.theCrafterCarries)
	sc.Step(`^the map holds:$`, cc.theMapHolds)
	sc.Step(`^the crafter carries a "([^"]*)" with (\d+) charges$`, cc.theCrafterCarriesAWithCharges)
	sc.Step(`^the crafter picks up (\d+) "([^"]*)"$`, cc.theCrafterPicksUp)

	sc.Step(`^the crafter crafts "([^"]*)"$`, cc.theCrafterCrafts)
	sc.Step(`^the crafter crafts (\d+) "([^"]*)"$`, cc.theCrafterCraftsN)
	sc.Step(`^the crafter starts crafting "([^"]*)"$`, cc.theCrafterStartsCrafting)
	sc.Step(`^(\d+) moves pass$`, cc.movesPass)
	sc.Step(`^the craft finishes$`, cc.theCraftFinishes)
	sc.Step(`^the crafter retries the craft$`, cc.theCrafterRetriesTheCraft)
	sc.Step(`^the crafter reads "([^"]*)"$`, cc.theCrafterReads)
	sc.Step(`^the crafter suspends the craft$`, cc.theCrafterSuspendsTheCraft)
	sc.Step(`^the crafter resumes the craft$`, cc.theCrafterResumesTheCraft)

	sc.Step(`^the craft is complete$`, cc.theCraftIsComplete)
	sc.Step(`^the craft is still running$`, cc.theCraftIsStillRunning)
	sc.Step(`^the craft is blocked on "([^"]*)"$`, cc.theCraftIsBlockedOn)
	sc.Step(`^the craft fails with "([^"]*)"$`, cc.theCraftFailsWith)
	sc.Step(`^the crafter carries (\d+) "([^"]*)"$`, cc.theCrafterCarriesN)
	sc.Step(`^the map holds (\d+) "([^"]*)"$`, cc.theMapHoldsN)
	sc.Step(`^the crafter has (\d+) charges of "([^"]*)"$`, cc.theCrafterHasChargesOf)
	sc.Step(`^the crafter knows "([^"]*)"$`, cc.theCrafterKnows)
	sc.Step(`^the crafter has (\d+) suspended crafts?$`, cc.theCrafterHasSuspendedCrafts)
	sc.Step(`^the event "([^"]*)" was published$`, cc.theEventWasPublished)
	sc.Step(`^the event "([^"]*)" was not published$`, cc.theEventWasNotPublished)

	sc.Step(`^the crafter disassembles "([^"]*)"$`, cc.theCrafterDisassembles)
	sc.Step(`^the disassembly succeeds$`, cc.theDisassemblySucceeds)
	sc.Step(`^the disassembly fails with "([^"]*)"$`, cc.theCraftFailsWith)

	sc.Step(`^a player named "([^"]*)" sets off "([^"]*)" with roll ([\d.]+)$`, cc.aPlayerSetsOff)
	sc.Step(`^a tiny monster named "([^"]*)" sets off "([^"]*)" with roll ([\d.]+)$`, cc.aTinyMonsterSetsOff)
	sc.Step(`^the victim takes (\d+) damage$`, cc.theVictimTakesDamage)
	sc.Step(`^the trap is removed$`, cc.theTrapIsRemoved)
	sc.Step(`^the trap is skipped$`, cc.theTrapIsSkipped)
}
