// Package engine drives the full narrative pipeline for one session:
// classify a fragment, spin up or tear down combat, scan for skill
// checks and optionally resolve them. It composes the scanner,
// bestiary, loot, checks and combat packages behind a single entry
// point so callers feed raw text and get structured events back.
package engine

import (
	"github.com/ravenholt/encounter-engine/pkg/actor"
	"github.com/ravenholt/encounter-engine/pkg/bestiary"
	"github.com/ravenholt/encounter-engine/pkg/checks"
	"github.com/ravenholt/encounter-engine/pkg/combat"
	"github.com/ravenholt/encounter-engine/pkg/dice"
	"github.com/ravenholt/encounter-engine/pkg/loot"
	"github.com/ravenholt/encounter-engine/pkg/rules"
	"github.com/ravenholt/encounter-engine/pkg/scanner"
)

// Options configures engine behavior for a session.
type Options struct {
	// SupportsBracketNotation additionally recognizes explicit
	// [ROLL: d20 ...] markers in fragments.
	SupportsBracketNotation bool

	// AutoResolve rolls detected checks immediately against the
	// first party member instead of returning unresolved prompts.
	AutoResolve bool

	// OnResolved, when set, is invoked for every auto-resolved
	// check. Callbacks must not block; slow delivery belongs in the
	// callback's own goroutine.
	OnResolved func(checks.Result)

	// Source overrides the random source. Nil uses the process-wide
	// default; tests inject a scripted source.
	Source dice.Source
}

// FragmentResult reports everything a fragment triggered.
type FragmentResult struct {
	StartedCombat bool                       `json:"started_combat"`
	EndedCombat   bool                       `json:"ended_combat"`
	Threats       []bestiary.Threat          `json:"threats,omitempty"`
	Prompts       []scanner.SkillCheckPrompt `json:"prompts,omitempty"`
	Checks        []checks.Result            `json:"checks,omitempty"`
	Loot          []loot.Item                `json:"loot,omitempty"`
}

// Engine processes narrative fragments for one session. Not safe for
// concurrent use; callers serialize access per session (the worker
// holds a per-session lock, the API loads and stores atomically).
type Engine struct {
	opts      Options
	src       dice.Source
	scanner   *scanner.Scanner
	extractor *bestiary.Extractor
	threats   *bestiary.Generator
	resolver  *checks.Resolver

	party   []*actor.CharacterSheet
	session *combat.Session
}

// New creates an engine for the given party roster. The session
// starts idle.
func New(party []*actor.CharacterSheet, opts Options) *Engine {
	src := opts.Source
	if src == nil {
		src = dice.Default()
	}
	return &Engine{
		opts:      opts,
		src:       src,
		scanner:   scanner.NewScanner(opts.SupportsBracketNotation),
		extractor: bestiary.NewExtractor(),
		threats:   bestiary.NewGenerator(src),
		resolver:  checks.NewResolver(src),
		party:     party,
		session:   combat.NewSession(),
	}
}

// Restore creates an engine around a previously persisted session, so
// a stored encounter picks up where it left off.
func Restore(party []*actor.CharacterSheet, session *combat.Session, opts Options) *Engine {
	e := New(party, opts)
	if session != nil {
		e.session = session
	}
	return e
}

// Session exposes the live combat state for persistence and display.
func (e *Engine) Session() *combat.Session {
	return e.session
}

// HandleFragment runs one narrative fragment through the pipeline.
// Combat-start cues matter only while idle and combat-end cues only
// while fighting; skill checks are scanned on every fragment
// regardless of combat state.
func (e *Engine) HandleFragment(text string) FragmentResult {
	var res FragmentResult

	cls := e.scanner.Classify(text)
	switch {
	case !e.session.InCombat && cls.StartsCombat:
		res.StartedCombat = true
		res.Threats = e.spawnThreats(text)

		participants := e.partyParticipants()
		for _, t := range res.Threats {
			participants = append(participants, combat.FromThreat(t))
		}
		e.session.Initialize(participants)

	case e.session.InCombat && cls.EndsCombat:
		res.EndedCombat = true
		e.session.AddLoot(e.threats.LootFromText(text)...)
		res.Loot = append(res.Loot, e.session.AccumulatedLoot...)
		e.session.End()
	}

	res.Prompts = e.scanner.FindSkillChecks(text)
	if e.opts.AutoResolve {
		res.Checks = e.resolveAll(res.Prompts)
	}
	return res
}

func (e *Engine) spawnThreats(text string) []bestiary.Threat {
	names := e.extractor.Extract(text)
	threats := make([]bestiary.Threat, 0, len(names))
	for _, name := range names {
		threats = append(threats, e.threats.SynthesizeThreat(name))
	}
	return threats
}

// partyParticipants projects the party roster into combatants. Sheets
// hydrate through the actor builder so missing HP and AC pick up the
// same defaults everywhere; initiative is a fresh d20 plus the
// dexterity modifier.
func (e *Engine) partyParticipants() []*combat.Participant {
	participants := make([]*combat.Participant, 0, len(e.party))
	for _, sheet := range e.party {
		a, err := sheet.BuildActor()
		if err != nil {
			continue
		}
		participants = append(participants, &combat.Participant{
			ID:         sheet.ID,
			Name:       sheet.Name,
			HP:         a.HP(),
			MaxHP:      a.MaxHP(),
			ArmorClass: a.AC(),
			Initiative: dice.D20(e.src) + rules.AbilityModifier(sheet.Score("dexterity")),
		})
	}
	return participants
}

// resolveAll rolls each prompt for the first party member. Results
// land on that member's participant record when combat is live, and
// the OnResolved callback fires per result.
func (e *Engine) resolveAll(prompts []scanner.SkillCheckPrompt) []checks.Result {
	if len(prompts) == 0 {
		return nil
	}

	var sheet *actor.CharacterSheet
	if len(e.party) > 0 {
		sheet = e.party[0]
	}

	results := make([]checks.Result, 0, len(prompts))
	for _, prompt := range prompts {
		result := e.resolver.Resolve(prompt, sheet)
		results = append(results, result)

		if sheet != nil {
			if p := e.session.Participant(sheet.ID); p != nil {
				r := result
				p.LastRollResult = &r
			}
		}
		if e.opts.OnResolved != nil {
			e.opts.OnResolved(result)
		}
	}
	return results
}

// ResolveCheck rolls a single named check for a specific party member,
// for callers that manage prompts themselves (the API's check
// endpoint and the console).
func (e *Engine) ResolveCheck(prompt scanner.SkillCheckPrompt, characterID string) checks.Result {
	var sheet *actor.CharacterSheet
	for _, s := range e.party {
		if s.ID == characterID {
			sheet = s
			break
		}
	}

	result := e.resolver.Resolve(prompt, sheet)
	if sheet != nil {
		if p := e.session.Participant(sheet.ID); p != nil {
			r := result
			p.LastRollResult = &r
		}
	}
	return result
}
