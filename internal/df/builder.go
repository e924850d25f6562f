package df

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"github.com/f3rmion/dfscope/internal/decode"
	"github.com/f3rmion/dfscope/internal/gamedata"
	"github.com/f3rmion/dfscope/internal/layout"
)

// Options tunes a Builder.
type Options struct {
	// NameCacheSize bounds the rendered surname cache.
	NameCacheSize int
	Logger        *slog.Logger
	// Now stamps snapshots; defaults to time.Now.
	Now func() time.Time
}

// Builder turns an attached target into snapshots. The schema and catalog
// are shared read-only; a Builder may be used by one goroutine at a time.
type Builder struct {
	schema  *layout.Schema
	catalog *gamedata.Catalog
	names   *nameCache
	log     *slog.Logger
	now     func() time.Time
	gen     atomic.Uint64
}

// NewBuilder checks that schema defines every field the decoders need.
func NewBuilder(schema *layout.Schema, catalog *gamedata.Catalog, opts Options) (*Builder, error) {
	if err := schema.Validate(RequiredFields()); err != nil {
		return nil, fmt.Errorf("validating schema: %w", err)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Builder{
		schema:  schema,
		catalog: catalog,
		names:   newNameCache(opts.NameCacheSize),
		log:     opts.Logger,
		now:     opts.Now,
	}, nil
}

// Catalog returns the reference tables the builder resolves against.
func (b *Builder) Catalog() *gamedata.Catalog { return b.catalog }

func (b *Builder) session(t Target) *session {
	s := &session{
		r:       decode.NewReader(t),
		schema:  b.schema,
		catalog: b.catalog,
		names:   b.names,
		log:     b.log,
		base:    t.Base(),
		w:       &world{},
	}
	s.now = Date(s.r.I32(s.global("current_year")), s.r.I32(s.global("cur_year_tick")))
	return s
}

// Rebuild decodes a complete snapshot. It returns ErrNoFortress when the
// target has no fortress loaded. A creature that fails to decode is left
// out without affecting the others.
func (b *Builder) Rebuild(ctx context.Context, t Target) (*Snapshot, error) {
	start := time.Now()
	s := b.session(t)
	w := s.w

	w.fortress = s.r.Ptr(s.global("fortress_entity"))
	if w.fortress == 0 {
		return nil, ErrNoFortress
	}
	w.fortressID = s.r.I32(s.at(w.fortress, layout.HistEntity, "id"))
	w.civID = s.r.I32(s.global("dwarf_civ_index"))
	w.dwarfRaceID = int32(s.r.I16(s.global("dwarf_race_index")))

	s.loadReferences()
	w.nobles = s.readNobles()
	w.beliefs = s.readFortressBeliefs()
	w.squads = s.readSquads()

	snap, err := b.decodeCreatures(ctx, s)
	if err != nil {
		return nil, err
	}
	snap.Nobles = w.nobles
	snap.Beliefs = w.beliefs
	for _, q := range w.squads {
		snap.Squads = append(snap.Squads, q)
	}
	slices.SortFunc(snap.Squads, func(a, c *Squad) int { return cmp.Compare(a.ID, c.ID) })

	b.log.Debug("rebuild decoded",
		"dwarves", len(snap.Dwarves),
		"rejected", snap.Rejected,
		"read_faults", s.r.Faults(),
		"took", time.Since(start))
	return snap, nil
}

// RefreshCreatures re-reads only the creature list and the tables it
// needs. It serves targets sitting on the embark screen, where the
// starting party exists but the fortress does not.
func (b *Builder) RefreshCreatures(ctx context.Context, t Target) (*Snapshot, error) {
	s := b.session(t)
	s.w.civID = s.r.I32(s.global("dwarf_civ_index"))
	s.w.dwarfRaceID = int32(s.r.I16(s.global("dwarf_race_index")))
	s.loadReferences()

	snap, err := b.decodeCreatures(ctx, s)
	if err != nil {
		return nil, err
	}
	snap.Partial = true
	return snap, nil
}

// EmbarkScreen reports whether the target is showing the embark setup screen.
func (b *Builder) EmbarkScreen(t Target) bool {
	return b.session(t).onScreen("setupdwarfgame_vtable")
}

// loadReferences reads the tables creatures are resolved against, in
// dependency order.
func (s *session) loadReferences() {
	w := s.w
	w.langs = s.readLanguages()
	s.names.reset(w.langs)
	w.races = s.readRaces()
	w.syndromes = s.r.Pointers(s.global("all_syndromes_vector"))
	w.histFigs = s.indexHistFigures()
	w.fakeIDs = s.indexFakeIdentities()
}

func (b *Builder) decodeCreatures(ctx context.Context, s *session) (*Snapshot, error) {
	w := s.w
	snap := &Snapshot{
		BuiltAt:     b.now(),
		Time:        s.now,
		FortressID:  w.fortressID,
		CivID:       w.civID,
		DwarfRaceID: w.dwarfRaceID,
		Races:       w.races,
		Languages:   w.langs,
	}

	for _, addr := range s.r.Pointers(s.global("active_creature_vector")) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d, err := s.safeDecodeDwarf(addr)
		if err != nil {
			snap.Rejected++
			if errors.Is(err, ErrRejected) {
				b.log.Debug("creature skipped", "err", err)
			} else {
				b.log.Warn("creature decode failed", "address", fmt.Sprintf("0x%X", addr), "err", err)
			}
			continue
		}
		snap.Dwarves = append(snap.Dwarves, d)
	}

	snap.Generation = b.gen.Add(1)
	return snap, nil
}

// safeDecodeDwarf contains a panic from one corrupt creature to that creature.
func (s *session) safeDecodeDwarf(addr uint64) (d *Dwarf, err error) {
	defer func() {
		if r := recover(); r != nil {
			d, err = nil, fmt.Errorf("decoding creature at 0x%X: %v", addr, r)
		}
	}()
	return s.decodeDwarf(addr)
}
