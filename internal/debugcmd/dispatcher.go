package debugcmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/appengine-ltd/mine-anything/internal/game"
)

var (
	ErrUnknownCommand = errors.New("unknown debug command")
	ErrAmbiguous      = errors.New("ambiguous debug command")
	ErrUsage          = errors.New("invalid arguments")
)

const (
	defaultResourceAmount = 10
	defaultDiamondAmount  = 10
	logPrefix             = "🐛 "
)

type handler func(d *Dispatcher, args []string) ([]string, error)

// Dispatcher runs named debug commands against an engine. Arguments are
// validated before anything is mutated, so a rejected command leaves the
// profile untouched.
type Dispatcher struct {
	engine   *game.Engine
	registry *Registry
	log      game.Logger
}

func New(e *game.Engine, log game.Logger) *Dispatcher {
	if log == nil {
		log = nopLogger{}
	}
	return &Dispatcher{engine: e, registry: DefaultRegistry(), log: log}
}

func (d *Dispatcher) Registry() *Registry { return d.registry }

// Run parses and executes one command line and returns its output lines.
// Every output line is also logged.
func (d *Dispatcher) Run(line string) ([]string, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrUnknownCommand)
	}
	best, alts := d.registry.matchCommand(normaliseTokens(tokens))
	if best.Canonical == "" || best.Score < 0.5 {
		err := fmt.Errorf("%w %q", ErrUnknownCommand, tokens[0])
		d.log.Warnf("%s%v; try help", logPrefix, err)
		return []string{err.Error() + "; try help"}, err
	}
	if len(alts) > 0 && best.Score-alts[0].Score < 0.05 && alts[0].Score > 0.65 {
		err := fmt.Errorf("%w %q: did you mean %s or %s?", ErrAmbiguous, tokens[0], best.Canonical, alts[0].Canonical)
		d.log.Warnf("%s%v", logPrefix, err)
		return []string{err.Error()}, err
	}

	cmd := d.registry.commands[best.Canonical]
	args := tokens[best.Consumed:]
	if len(args) < cmd.MinArgs || len(args) > cmd.MaxArgs {
		err := fmt.Errorf("%w: usage: %s", ErrUsage, cmd.Usage)
		d.log.Warnf("%s%v", logPrefix, err)
		return []string{err.Error()}, err
	}
	out, err := cmd.run(d, args)
	for _, l := range out {
		if err != nil {
			d.log.Warnf("%s%s", logPrefix, l)
		} else {
			d.log.Infof("%s%s", logPrefix, l)
		}
	}
	return out, err
}

func normaliseTokens(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = normaliseToken(t)
	}
	return out
}

// usageError reports a rejected argument with optional suggestions.
func usageError(what, got string, options []string) ([]string, error) {
	msg := fmt.Sprintf("Invalid %s %q. Available: %s", what, got, strings.Join(options, ", "))
	lines := []string{msg}
	if s := suggest(game.NormalizeKey(got), options); len(s) > 0 {
		lines = append(lines, fmt.Sprintf("Did you mean %s?", strings.Join(s, " or ")))
	}
	return lines, fmt.Errorf("%w: %s", ErrUsage, msg)
}

func parseAmount(args []string, i, def int) (int, bool) {
	if len(args) <= i {
		return def, true
	}
	n, err := strconv.Atoi(args[i])
	return n, err == nil
}

func DefaultRegistry() *Registry {
	r := NewRegistry()
	commands := []CommandDef{
		{Name: "force-creeper", Group: "Spawns", Usage: "force-creeper", Summary: "Force creeper on next mine", run: forceSpawn(game.SpawnCreeper, "a creeper")},
		{Name: "force-zombie", Group: "Spawns", Usage: "force-zombie", Summary: "Force zombie on next mine", run: forceSpawn(game.SpawnZombie, "a zombie")},
		{Name: "force-villager", Group: "Spawns", Usage: "force-villager", Summary: "Force villager on next mine", run: forceSpawn(game.SpawnVillager, "a villager")},
		{Name: "force-pet", Group: "Spawns", Usage: "force-pet <pet>", Summary: "Force pet on next mine", MinArgs: 1, MaxArgs: 2, run: runForcePet},
		{Name: "force-chest", Group: "Spawns", Usage: "force-chest", Summary: "Force chest on next mine", run: forceSpawn(game.SpawnChest, "a chest")},
		{Name: "force-warden", Group: "Spawns", Usage: "force-warden", Summary: "Force warden on next footer mine", run: forceSpawn(game.SpawnWarden, "the warden")},
		{Name: "force-enchantment", Group: "Spawns", Usage: "force-enchantment [name]", Summary: "Force an enchantment, random when no name is given", MaxArgs: 2, run: runForceEnchantment},

		{Name: "list-pets", Group: "Pets", Usage: "list-pets", Summary: "List available pets", run: runListPets},
		{Name: "reset-pets", Group: "Pets", Usage: "reset-pets", Summary: "Reset all collected pets", run: runResetPets},

		{Name: "list-resources", Group: "Resources & inventory", Usage: "list-resources", Summary: "List available resources", run: runListResources},
		{Name: "add-resource", Group: "Resources & inventory", Usage: "add-resource <name> [n]", Summary: "Add resources to inventory", MinArgs: 1, MaxArgs: 2, run: runAddResource},
		{Name: "show-inventory", Aliases: []string{"inventory", "inv"}, Group: "Resources & inventory", Usage: "show-inventory", Summary: "Display current inventory", run: runShowInventory},
		{Name: "clear-inventory", Group: "Resources & inventory", Usage: "clear-inventory", Summary: "Clear all resources", run: runClearInventory},

		{Name: "list-enchantments", Group: "Enchantments", Usage: "list-enchantments", Summary: "List available enchantments", run: runListEnchantments},
		{Name: "add-enchantment", Group: "Enchantments", Usage: "add-enchantment <name>", Summary: "Add enchantment to inventory", MinArgs: 1, MaxArgs: 2, run: runAddEnchantment},
		{Name: "show-enchantments", Group: "Enchantments", Usage: "show-enchantments", Summary: "Display enchantment inventory", run: runShowEnchantments},
		{Name: "activate-enchantment", Group: "Enchantments", Usage: "activate-enchantment <i>", Summary: "Activate enchantment by index", MinArgs: 1, MaxArgs: 1, run: runActivateEnchantment},

		{Name: "add-xp", Group: "XP & progression", Usage: "add-xp <n>", Summary: "Add XP", MinArgs: 1, MaxArgs: 1, run: runAddXP},
		{Name: "get-diamonds", Group: "XP & progression", Usage: "get-diamonds", Summary: "Show diamond/sword status", run: runGetDiamonds},
		{Name: "add-diamonds", Group: "XP & progression", Usage: "add-diamonds [n]", Summary: "Add diamonds (max 15)", MaxArgs: 1, run: runAddDiamonds},
		{Name: "give-sword", Group: "XP & progression", Usage: "give-sword", Summary: "Grant a diamond sword", run: runGiveSword},
		{Name: "reset-diamonds", Group: "XP & progression", Usage: "reset-diamonds", Summary: "Reset diamonds and sword", run: runResetDiamonds},

		{Name: "help", Aliases: []string{"h", "?", "commands"}, Group: "Help", Usage: "help", Summary: "Show this help", run: runHelp},
	}
	for _, c := range commands {
		r.Register(c)
	}
	return r
}

func forceSpawn(kind game.SpawnKind, what string) handler {
	return func(d *Dispatcher, _ []string) ([]string, error) {
		d.engine.ForceSpawn(kind)
		if kind == game.SpawnWarden {
			return []string{"Next footer mine will spawn " + what}, nil
		}
		return []string{"Next mine will spawn " + what}, nil
	}
}

func petKeys() []string {
	out := make([]string, len(game.Pets))
	for i, p := range game.Pets {
		out[i] = string(p.ID)
	}
	return out
}

func enchantKeys(includeHaste bool) []string {
	var out []string
	for _, e := range game.Enchantments {
		if e.ID == game.EnchantHaste && !includeHaste {
			continue
		}
		out = append(out, string(e.ID))
	}
	return out
}

func resourceKeys() []string {
	out := make([]string, len(game.Resources))
	for i, r := range game.Resources {
		out[i] = string(r.ID)
	}
	return out
}

// joinName accepts multi-word names such as "white toad".
func joinName(args []string) string {
	return game.NormalizeKey(strings.Join(args, " "))
}

func runForcePet(d *Dispatcher, args []string) ([]string, error) {
	key := joinName(args)
	pet, ok := game.LookupPet(game.PetID(key))
	if !ok {
		return usageError("pet", key, petKeys())
	}
	if err := d.engine.ForcePet(pet.ID); err != nil {
		return nil, err
	}
	return []string{"Next mine will spawn " + pet.Name}, nil
}

func runForceEnchantment(d *Dispatcher, args []string) ([]string, error) {
	if len(args) == 0 {
		if err := d.engine.ForceEnchantment(""); err != nil {
			return nil, err
		}
		return []string{"Next mine will spawn a random enchantment"}, nil
	}
	key := joinName(args)
	ench, ok := game.LookupEnchantment(game.EnchantID(key))
	if !ok {
		return usageError("enchantment", key, enchantKeys(true))
	}
	if err := d.engine.ForceEnchantment(ench.ID); err != nil {
		return nil, err
	}
	return []string{"Next mine will spawn " + ench.Name}, nil
}

func runListPets(_ *Dispatcher, _ []string) ([]string, error) {
	names := make([]string, len(game.Pets))
	for i, p := range game.Pets {
		names[i] = p.Name
	}
	return []string{"Available pets: " + strings.Join(names, ", ")}, nil
}

func runResetPets(d *Dispatcher, _ []string) ([]string, error) {
	d.engine.ResetPets()
	return []string{"All pets reset"}, nil
}

func runListResources(_ *Dispatcher, _ []string) ([]string, error) {
	names := make([]string, len(game.Resources))
	for i, r := range game.Resources {
		names[i] = r.Name
	}
	return []string{"Available resources: " + strings.Join(names, ", ")}, nil
}

func runAddResource(d *Dispatcher, args []string) ([]string, error) {
	key := game.NormalizeKey(args[0])
	res, ok := game.LookupResource(game.ResourceID(key))
	if !ok {
		return usageError("resource", key, resourceKeys())
	}
	n, ok := parseAmount(args, 1, defaultResourceAmount)
	if !ok {
		return []string{"Amount must be a whole number"}, fmt.Errorf("%w: amount %q", ErrUsage, args[1])
	}
	total, err := d.engine.AddResource(res.ID, n)
	if err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("Added %d %s. Total: %d", n, res.Name, total)}, nil
}

func runShowInventory(d *Dispatcher, _ []string) ([]string, error) {
	p := d.engine.Profile()
	var lines []string
	for _, r := range game.Resources {
		if n := p.Inventory[r.ID]; n > 0 {
			lines = append(lines, fmt.Sprintf("  %s: %d", r.Name, n))
		}
	}
	if len(lines) == 0 {
		return []string{"Inventory is empty"}, nil
	}
	return append([]string{"Current inventory:"}, lines...), nil
}

func runClearInventory(d *Dispatcher, _ []string) ([]string, error) {
	d.engine.ClearInventory()
	return []string{"Inventory cleared"}, nil
}

func runListEnchantments(_ *Dispatcher, _ []string) ([]string, error) {
	names := make([]string, len(game.Enchantments))
	for i, e := range game.Enchantments {
		names[i] = e.Name
	}
	return []string{"Available enchantments: " + strings.Join(names, ", ")}, nil
}

func runAddEnchantment(d *Dispatcher, args []string) ([]string, error) {
	key := joinName(args)
	ench, ok := game.LookupEnchantment(game.EnchantID(key))
	if !ok || ench.ID == game.EnchantHaste {
		return usageError("enchantment", key, enchantKeys(false))
	}
	if err := d.engine.AddEnchantment(ench.ID); err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("Added %s to enchantment inventory (%d uses)", ench.Name, ench.Durability)}, nil
}

func runShowEnchantments(d *Dispatcher, _ []string) ([]string, error) {
	p := d.engine.Profile()
	if len(p.EnchantInventory) == 0 {
		return []string{"No enchantments in inventory"}, nil
	}
	lines := []string{"Enchantment inventory:"}
	for i, slot := range p.EnchantInventory {
		def, _ := game.LookupEnchantment(slot.Type)
		active := ""
		if p.ActiveEnchantIndex != nil && *p.ActiveEnchantIndex == i {
			active = " ⚡ ACTIVE"
		}
		lines = append(lines, fmt.Sprintf("  [%d] %s: %d/%d uses%s", i, def.Name, slot.Durability, slot.MaxDurability, active))
	}
	return lines, nil
}

func runActivateEnchantment(d *Dispatcher, args []string) ([]string, error) {
	i, err := strconv.Atoi(args[0])
	if err != nil {
		return []string{"Invalid enchantment index"}, fmt.Errorf("%w: index %q", ErrUsage, args[0])
	}
	if err := d.engine.ActivateEnchantment(i); err != nil {
		if errors.Is(err, game.ErrNoSuchIndex) {
			return []string{"Invalid enchantment index"}, fmt.Errorf("%w: %w", ErrUsage, err)
		}
		return nil, err
	}
	p := d.engine.Profile()
	id, _ := p.ActiveEnchantment()
	def, _ := game.LookupEnchantment(id)
	return []string{"Activated " + def.Name}, nil
}

func runAddXP(d *Dispatcher, args []string) ([]string, error) {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return []string{"Amount must be a whole number"}, fmt.Errorf("%w: amount %q", ErrUsage, args[0])
	}
	total := d.engine.AddXP(n)
	return []string{fmt.Sprintf("Added %d XP. Total: %d", n, total)}, nil
}

func runGetDiamonds(d *Dispatcher, _ []string) ([]string, error) {
	p := d.engine.Profile()
	return []string{fmt.Sprintf("Diamonds: %d, Diamond Sword: %d uses", p.Inventory[game.ResourceDiamond], p.DiamondSword)}, nil
}

func runAddDiamonds(d *Dispatcher, args []string) ([]string, error) {
	n, ok := parseAmount(args, 0, defaultDiamondAmount)
	if !ok || n < 0 {
		return []string{"Amount must be a positive whole number"}, fmt.Errorf("%w: amount %q", ErrUsage, args[0])
	}
	total := d.engine.AddDiamonds(n)
	return []string{fmt.Sprintf("Added %d diamonds. Total: %d", n, total)}, nil
}

func runGiveSword(d *Dispatcher, _ []string) ([]string, error) {
	d.engine.GiveSword()
	return []string{fmt.Sprintf("Diamond Sword granted! (%d uses) You can now defeat the Warden.", d.engine.Profile().DiamondSword)}, nil
}

func runResetDiamonds(d *Dispatcher, _ []string) ([]string, error) {
	d.engine.ResetDiamonds()
	return []string{"Diamonds and sword reset"}, nil
}

func runHelp(d *Dispatcher, _ []string) ([]string, error) {
	lines := []string{"Mine Anything debug commands:"}
	group := ""
	for _, c := range d.registry.Commands() {
		if c.Group != group {
			group = c.Group
			lines = append(lines, "", strings.ToUpper(group)+":")
		}
		lines = append(lines, fmt.Sprintf("  %-28s - %s", c.Usage, c.Summary))
	}
	return lines, nil
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}
