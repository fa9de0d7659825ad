// Package gamedb parses the emulator's bundled XML game database and
// answers SHA-1 lookups for cartridges whose iNES header under-specifies
// region, submapper, or RAM sizing. The XML shape follows the DAT-file
// idiom used by the rest of this retrieval pack's ROM-management tooling
// (see sargunv-rom-tools/sargunv-screenscraper-go's lib/datfile package):
// a <datafile> root with repeated <game> elements, each carrying one or
// more <rom> children identified by a sha1 attribute.
package gamedb

import (
	"embed"
	"encoding/xml"
	"fmt"
	"sync"
)

//go:embed data/nescore-gamedb.xml
var embeddedFS embed.FS

// ConsoleType mirrors cartridge.ConsoleType without importing it, to keep
// this package free of a dependency on the cartridge package (cartridge
// depends on gamedb, not the other way around).
type ConsoleType uint8

const (
	ConsoleStandard ConsoleType = iota
	ConsoleVsSystem
	ConsolePlaychoice
	ConsoleExtended
)

// Region mirrors cartridge.Region.
type Region uint8

const (
	RegionNTSC Region = iota
	RegionPAL
	RegionMulti
	RegionDendy
)

// Entry is a single game database record, already decoded into the typed
// fields a Cartridge wants to overlay onto its parsed header.
type Entry struct {
	Name           string
	Console        ConsoleType
	Region         Region
	Submapper      uint8
	Expansion      uint8
	PRGRAMSize     int
	PRGNVRAMSize   int
	PRGSHA1        string
	CHRSHA1        string // empty when the cartridge has no CHR-ROM
}

// rawDatafile/rawGame/rawRom mirror the on-disk XML shape exactly; Entry is
// the decoded, emulator-native projection of it.
type rawDatafile struct {
	XMLName xml.Name `xml:"datafile"`
	Games   []rawGame `xml:"game"`
}

type rawGame struct {
	Name      string  `xml:"name,attr"`
	Console   string  `xml:"console,attr"`
	Region    string  `xml:"region,attr"`
	Submapper uint8   `xml:"submapper,attr"`
	Expansion uint8   `xml:"expansion,attr"`
	PRGRAM    int     `xml:"prgram,attr"`
	PRGNVRAM  int     `xml:"prgnvram,attr"`
	Roms      []rawRom `xml:"rom"`
}

type rawRom struct {
	Kind string `xml:"kind,attr"` // "prg" or "chr"
	SHA1 string `xml:"sha1,attr"`
}

// DB is a parsed, queryable game database.
type DB struct {
	byPRGSHA1 map[string][]Entry
}

var (
	defaultOnce sync.Once
	defaultDB   *DB
	defaultErr  error
)

// Default loads (and memoizes) the bundled game database.
func Default() (*DB, error) {
	defaultOnce.Do(func() {
		b, err := embeddedFS.ReadFile("data/nescore-gamedb.xml")
		if err != nil {
			defaultErr = fmt.Errorf("gamedb: reading embedded database: %w", err)
			return
		}
		defaultDB, defaultErr = Parse(b)
	})
	return defaultDB, defaultErr
}

// Parse decodes a game-database XML document.
func Parse(xmlBytes []byte) (*DB, error) {
	var raw rawDatafile
	if err := xml.Unmarshal(xmlBytes, &raw); err != nil {
		return nil, fmt.Errorf("gamedb: %w", err)
	}
	db := &DB{byPRGSHA1: make(map[string][]Entry)}
	for _, g := range raw.Games {
		var prgSHA1, chrSHA1 string
		for _, r := range g.Roms {
			switch r.Kind {
			case "prg":
				prgSHA1 = r.SHA1
			case "chr":
				chrSHA1 = r.SHA1
			}
		}
		if prgSHA1 == "" {
			continue
		}
		e := Entry{
			Name:         g.Name,
			Console:      parseConsole(g.Console),
			Region:       parseRegion(g.Region),
			Submapper:    g.Submapper,
			Expansion:    g.Expansion,
			PRGRAMSize:   g.PRGRAM,
			PRGNVRAMSize: g.PRGNVRAM,
			PRGSHA1:      prgSHA1,
			CHRSHA1:      chrSHA1,
		}
		db.byPRGSHA1[prgSHA1] = append(db.byPRGSHA1[prgSHA1], e)
	}
	return db, nil
}

// Lookup finds a Standard-console entry whose PRG sha1 matches, and whose
// CHR sha1 matches too when the cartridge has CHR-ROM (chrSHA1 != "").
func (db *DB) Lookup(prgSHA1, chrSHA1 string) (Entry, bool) {
	for _, e := range db.byPRGSHA1[prgSHA1] {
		if e.Console != ConsoleStandard {
			continue
		}
		if chrSHA1 != "" && e.CHRSHA1 != "" && e.CHRSHA1 != chrSHA1 {
			continue
		}
		return e, true
	}
	return Entry{}, false
}

func parseConsole(s string) ConsoleType {
	switch s {
	case "vs-system":
		return ConsoleVsSystem
	case "playchoice":
		return ConsolePlaychoice
	case "extended":
		return ConsoleExtended
	default:
		return ConsoleStandard
	}
}

func parseRegion(s string) Region {
	switch s {
	case "pal":
		return RegionPAL
	case "multi":
		return RegionMulti
	case "dendy":
		return RegionDendy
	default:
		return RegionNTSC
	}
}
