// seed_catalogs genera el script SQL que siembra los catálogos de estados.
//
// Uso: go run ./cmd/seed_catalogs [estados.csv]
// Sin argumento usa los catálogos por defecto. El CSV (tipo;nombre) exportado del sistema
// anterior viene en Windows-1252; se decodifica a UTF-8 antes de generar el SQL.
// Escribe: internal/infrastructure/postgres/migrations/002_seed_catalogs.sql
package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/lims-api/internal/domain/entity"
)

func main() {
	catalogs := entity.DefaultCatalogs
	if len(os.Args) > 1 {
		var err error
		catalogs, err = readCSV(os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
			os.Exit(1)
		}
	}

	outPath := filepath.Join("internal", "infrastructure", "postgres", "migrations", "002_seed_catalogs.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, catalogs); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s\n", outPath)
}

func readCSV(path string) (map[entity.StateKind][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(transform.NewReader(f, charmap.Windows1252.NewDecoder()))
	r.Comma = ';'
	r.FieldsPerRecord = 2
	catalogs := make(map[entity.StateKind][]string)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		kind := entity.StateKind(strings.TrimSpace(rec[0]))
		name := strings.TrimSpace(rec[1])
		if !kind.Valid() {
			return nil, fmt.Errorf("tipo de catálogo desconocido %q", rec[0])
		}
		if name == "" {
			continue
		}
		catalogs[kind] = append(catalogs[kind], name)
	}
	return catalogs, nil
}

func writeSQL(w io.Writer, catalogs map[entity.StateKind][]string) error {
	kinds := make([]string, 0, len(catalogs))
	for k := range catalogs {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)

	if _, err := fmt.Fprintln(w, "-- Catálogos de estados. Generado por cmd/seed_catalogs; no editar a mano."); err != nil {
		return err
	}
	for _, k := range kinds {
		kind := entity.StateKind(k)
		fmt.Fprintf(w, "\nINSERT INTO %s (id, name) VALUES\n", kind.CatalogTable())
		names := catalogs[kind]
		for i, name := range names {
			sep := ","
			if i == len(names)-1 {
				sep = ""
			}
			fmt.Fprintf(w, "    ('%s', '%s')%s\n", entity.SeedStateID(kind, name), escape(name), sep)
		}
		if _, err := fmt.Fprintln(w, "ON CONFLICT DO NOTHING;"); err != nil {
			return err
		}
	}
	return nil
}

func escape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
