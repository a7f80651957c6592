// seed_kennels genera un script SQL para cargar el plano de caniles de una organización
// a partir de una exportación CSV (separador ';').
//
// Uso: go run ./cmd/seed_kennels [ruta/caniles.csv] [organization_id]
// Columnas: code;name;zone;capacity;by_species   (by_species: dog=2|cat=4)
// Las planillas viejas salen en ISO-8859-1; si el archivo no es UTF-8 válido se decodifica como Latin-1.
// Escribe: internal/infrastructure/postgres/migrations/900_seed_kennels.sql
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Refugio-api/internal/domain/entity"
	domkennel "github.com/jhoicas/Refugio-api/internal/domain/kennel"
)

type kennelRow struct {
	code     string
	name     string
	zone     string
	capacity int
	rules    entity.CapacityRules
}

func main() {
	csvPath := "caniles.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	orgID := os.Getenv("SEED_ORGANIZATION_ID")
	if len(os.Args) > 2 {
		orgID = os.Args[2]
	}
	if strings.TrimSpace(orgID) == "" {
		fmt.Fprintln(os.Stderr, "organization_id requerido (argumento o SEED_ORGANIZATION_ID)")
		os.Exit(1)
	}

	raw, err := os.ReadFile(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	rows, err := parseLayout(decodeLegacy(raw))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	// Ruta del script de salida (relativa al módulo)
	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "900_seed_kennels.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, orgID, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d caniles\n", outPath, len(rows))
}

// decodeLegacy devuelve un lector UTF-8: si el contenido no es UTF-8 válido se asume ISO-8859-1.
func decodeLegacy(raw []byte) io.Reader {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if utf8.Valid(raw) {
		return bytes.NewReader(raw)
	}
	return transform.NewReader(bytes.NewReader(raw), charmap.ISO8859_1.NewDecoder())
}

func parseLayout(r io.Reader) ([]kennelRow, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows []kennelRow
	seen := make(map[string]int)
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "code") {
			continue
		}
		if len(rec) < 4 {
			return nil, fmt.Errorf("línea %d: se esperaban al menos 4 columnas", line)
		}
		row := kennelRow{
			code: strings.TrimSpace(rec[0]),
			name: strings.TrimSpace(rec[1]),
			zone: strings.TrimSpace(rec[2]),
		}
		if row.code == "" || row.name == "" {
			return nil, fmt.Errorf("línea %d: code y name son obligatorios", line)
		}
		if prev, dup := seen[row.code]; dup {
			return nil, fmt.Errorf("línea %d: código %q repetido (línea %d)", line, row.code, prev)
		}
		seen[row.code] = line
		row.capacity, err = strconv.Atoi(strings.TrimSpace(rec[3]))
		if err != nil || row.capacity < 1 {
			return nil, fmt.Errorf("línea %d: capacidad inválida %q", line, rec[3])
		}
		if len(rec) > 4 {
			row.rules, err = parseBySpecies(rec[4])
			if err != nil {
				return nil, fmt.Errorf("línea %d: %w", line, err)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseBySpecies interpreta "dog=2|cat=4".
func parseBySpecies(s string) (entity.CapacityRules, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return entity.CapacityRules{}, nil
	}
	raw := make(map[string]int)
	for _, part := range strings.Split(s, "|") {
		species, value, ok := strings.Cut(part, "=")
		if !ok {
			return entity.CapacityRules{}, fmt.Errorf("override %q: formato especie=capacidad", part)
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return entity.CapacityRules{}, fmt.Errorf("override %q: %w", part, err)
		}
		key := domkennel.NormalizeSpecies(species)
		if _, dup := raw[key]; dup {
			return entity.CapacityRules{}, fmt.Errorf("override %q: especie repetida", part)
		}
		raw[key] = n
	}
	rules, err := domkennel.NormalizeCapacityRules(raw)
	if err != nil {
		return entity.CapacityRules{}, fmt.Errorf("overrides %q: %w", s, err)
	}
	return rules, nil
}

func writeSQL(w io.Writer, orgID string, rows []kennelRow) error {
	sorted := make([]kennelRow, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].code < sorted[j].code })

	var b strings.Builder
	b.WriteString("-- Plano de caniles generado por cmd/seed_kennels\n")
	fmt.Fprintf(&b, "-- organization_id: %s\n\n", orgID)
	for _, r := range sorted {
		rules, err := json.Marshal(r.rules)
		if err != nil {
			return err
		}
		// ID determinístico: regenerar el script no duplica caniles
		id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(orgID+"/"+r.code)).String()
		b.WriteString("INSERT INTO kennels (id, organization_id, code, name, zone, status, capacity, capacity_rules)\n")
		fmt.Fprintf(&b, "VALUES ('%s', '%s', '%s', '%s', '%s', 'available', %d, '%s'::jsonb)\n",
			id, escapeSQL(orgID), escapeSQL(r.code), escapeSQL(r.name), escapeSQL(r.zone), r.capacity, escapeSQL(string(rules)))
		b.WriteString("ON CONFLICT (organization_id, code) DO UPDATE SET name = EXCLUDED.name, zone = EXCLUDED.zone,\n")
		b.WriteString("    capacity = EXCLUDED.capacity, capacity_rules = EXCLUDED.capacity_rules, updated_at = now();\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
