package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ravenholt/encounter-engine/pkg/actor"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <character.json> [...]\n", os.Args[0])
		os.Exit(1)
	}

	validator := &SheetValidator{}
	failed := false

	for _, filename := range os.Args[1:] {
		if err := validator.validateFile(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			failed = true
			continue
		}
		fmt.Printf("%s is valid!\n", filename)
	}

	if failed {
		os.Exit(1)
	}
}

type SheetValidator struct {
	errors []string
}

func (v *SheetValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	// Validate filename format
	baseName := filepath.Base(filename)
	if !strings.HasSuffix(baseName, ".json") {
		return fmt.Errorf("character file must have .json extension: %s", baseName)
	}

	nameWithoutExt := strings.TrimSuffix(baseName, ".json")
	if !isValidSheetFilename(nameWithoutExt) {
		return fmt.Errorf("character filename '%s' must be lowercase snake_case (e.g., my_rogue.json, not my-rogue.json or MyRogue.json)", baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	v.errors = nil

	if !json.Valid(data) {
		return fmt.Errorf("file %s contains invalid JSON", filename)
	}

	var sheet actor.CharacterSheet
	decoder := json.NewDecoder(strings.NewReader(string(data)))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&sheet); err != nil {
		return fmt.Errorf("file %s failed strict JSON unmarshaling: %w", filename, err)
	}

	v.validateSheet(&sheet, nameWithoutExt)

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}

	return nil
}

func (v *SheetValidator) validateSheet(sheet *actor.CharacterSheet, fileID string) {
	if sheet.ID != "" && sheet.ID != fileID {
		v.addError(fmt.Sprintf("id '%s' does not match filename '%s' (the filename wins at load time)", sheet.ID, fileID))
	}

	if sheet.Name == "" {
		v.addError("name is required")
	}

	if sheet.Level < 0 || sheet.Level > 20 {
		v.addError(fmt.Sprintf("level %d is out of range (0-20, 0 means default)", sheet.Level))
	}

	v.validateScore("strength", sheet.Stats.Strength)
	v.validateScore("dexterity", sheet.Stats.Dexterity)
	v.validateScore("constitution", sheet.Stats.Constitution)
	v.validateScore("intelligence", sheet.Stats.Intelligence)
	v.validateScore("wisdom", sheet.Stats.Wisdom)
	v.validateScore("charisma", sheet.Stats.Charisma)

	if sheet.HP < 0 {
		v.addError(fmt.Sprintf("hp %d cannot be negative", sheet.HP))
	}
	if sheet.MaxHP < 0 {
		v.addError(fmt.Sprintf("max_hp %d cannot be negative", sheet.MaxHP))
	}
	if sheet.MaxHP > 0 && sheet.HP > sheet.MaxHP {
		v.addError(fmt.Sprintf("hp %d exceeds max_hp %d", sheet.HP, sheet.MaxHP))
	}
	if sheet.AC < 0 || sheet.AC > 30 {
		v.addError(fmt.Sprintf("ac %d is out of range (0-30, 0 means default)", sheet.AC))
	}
}

// validateScore flags scores outside the 5e range. Zero is allowed
// and means "unset, default to 10" at load time.
func (v *SheetValidator) validateScore(ability string, score int) {
	if score < 0 || score > 30 {
		v.addError(fmt.Sprintf("%s score %d is out of range (0-30)", ability, score))
	}
}

func (v *SheetValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

var validFilenameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

func isValidSheetFilename(name string) bool {
	// Allow 'x.' prefix for experimental sheets
	name = strings.TrimPrefix(name, "x.")
	return validFilenameRegex.MatchString(name)
}
