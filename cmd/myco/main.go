// Package main contains the cli implementation of the tool. It uses
// cobra for cli tool implementation, following the teacher's flag-struct
// and RunE-closure layout.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"

	"myco/internal/config"
	"myco/internal/ingest"
	"myco/internal/mirror"
	"myco/internal/myco1"
	"myco/internal/output"
	"myco/internal/raster"
	"myco/internal/sqlengine/exec"
	"myco/internal/spatial"
	"myco/internal/world"
)

type ingestFlags struct {
	input       string
	fromMySQL   string
	output      string
	dbDump      string
	dbDumpScale int
	agents      int
	steps       int
	seed        uint32
	width       int
	height      int
	configPath  string
}

type queryFlags struct {
	db        string
	query     string
	dbRadius  int
	sqlFormat string
}

type mirrorFlags struct {
	db     string
	dsn    string
	dryRun bool
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "myco",
		Short: "Swarm-placed spatial SQL store",
	}

	rootCmd.AddCommand(ingestCmd())
	rootCmd.AddCommand(queryCmd())
	rootCmd.AddCommand(mirrorCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func ingestCmd() *cobra.Command {
	flags := &ingestFlags{}
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Parse SQL DDL/DML and place payloads on the grid",
		Long: `Ingest reads CREATE TABLE/INSERT statements, places every payload via the
deterministic carrier simulation, and writes the resulting world as a MYCO1 file.

Examples:
  myco ingest --input dump.sql --output world.myco1
  myco ingest --input dump.sql --output world.myco1 --agents 16 --steps 400
  myco ingest --input dump.sql --output world.myco1 --db-dump cluster.ppm
  myco ingest --from-mysql "user:pass@tcp(localhost:3306)/mydb" --output world.myco1`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runIngest(flags)
		},
	}

	cmd.Flags().StringVar(&flags.input, "input", "", "Path to a SQL dump file (required unless --from-mysql is set)")
	cmd.Flags().StringVar(&flags.fromMySQL, "from-mysql", "", "MySQL DSN to ingest tables/rows from directly, instead of --input")
	cmd.Flags().StringVar(&flags.output, "output", "", "Path to write the MYCO1 world file (required)")
	cmd.Flags().StringVar(&flags.dbDump, "db-dump", "", "Optional path to write a PPM cluster visualisation")
	cmd.Flags().IntVar(&flags.dbDumpScale, "db-dump-scale", 4, "Pixel block size for --db-dump")
	cmd.Flags().IntVar(&flags.agents, "agents", 0, "Carrier agent count (0 = use config/default)")
	cmd.Flags().IntVar(&flags.steps, "steps", 0, "Simulation steps (0 = use config/default)")
	cmd.Flags().Uint32Var(&flags.seed, "seed", 0, "PRNG seed (0 = use config/default)")
	cmd.Flags().IntVar(&flags.width, "width", 0, "Grid width (0 = use config/default)")
	cmd.Flags().IntVar(&flags.height, "height", 0, "Grid height (0 = use config/default)")
	cmd.Flags().StringVar(&flags.configPath, "config", "", "Optional TOML config file")

	return cmd
}

func runIngest(flags *ingestFlags) error {
	if flags.input == "" && flags.fromMySQL == "" {
		return fmt.Errorf("Ingest-Fehler: one of --input or --from-mysql is required")
	}
	if flags.input != "" && flags.fromMySQL != "" {
		return fmt.Errorf("Ingest-Fehler: --input and --from-mysql are mutually exclusive")
	}
	if flags.output == "" {
		return fmt.Errorf("Ingest-Fehler: --output is required")
	}

	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return fmt.Errorf("Ingest-Fehler: %w", err)
	}
	applyIngestOverrides(&cfg, flags)

	w := world.New(cfg.Ingest.Width, cfg.Ingest.Height)

	if flags.fromMySQL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		if err := ingest.IngestMySQL(ctx, w, flags.fromMySQL); err != nil {
			return fmt.Errorf("Ingest-Fehler: %w", err)
		}
	} else {
		content, err := os.ReadFile(flags.input)
		if err != nil {
			return fmt.Errorf("Ingest-Fehler: failed to read input: %w", err)
		}
		if err := ingest.ParseSQL(w, string(content)); err != nil {
			return fmt.Errorf("Ingest-Fehler: %w", err)
		}
	}

	simCfg := ingest.Config{
		AgentCount: cfg.Ingest.Agents,
		Steps:      cfg.Ingest.Steps,
		Seed:       cfg.Ingest.Seed,
		SpawnX:     cfg.Ingest.SpawnX,
		SpawnY:     cfg.Ingest.SpawnY,
	}
	if simCfg.SpawnX == 0 && simCfg.SpawnY == 0 {
		simCfg.SpawnX, simCfg.SpawnY = float64(w.Width)/2, float64(w.Height)/2
	}
	if err := ingest.Simulate(w, simCfg); err != nil {
		return fmt.Errorf("Ingest-Fehler: %w", err)
	}

	out, err := os.Create(flags.output)
	if err != nil {
		return fmt.Errorf("MYCO-Fehler: failed to create output file: %w", err)
	}
	defer out.Close()
	if err := myco1.Save(w, out); err != nil {
		return fmt.Errorf("MYCO-Fehler: %w", err)
	}

	if flags.dbDump != "" {
		if err := writeDBDump(w, flags.dbDump, flags.dbDumpScale); err != nil {
			return fmt.Errorf("Dump-Fehler: %w", err)
		}
	}

	fmt.Printf("ingested %d payload(s) across %d table(s) into %s\n", len(w.Payloads), len(w.Tables), flags.output)
	return nil
}

func writeDBDump(w *world.World, path string, scale int) error {
	if scale <= 0 {
		return fmt.Errorf("--db-dump-scale must be positive")
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dump file: %w", err)
	}
	defer f.Close()
	return raster.Dump(w, f, scale)
}

func applyIngestOverrides(cfg *config.Config, flags *ingestFlags) {
	if flags.agents > 0 {
		cfg.Ingest.Agents = flags.agents
	}
	if flags.steps > 0 {
		cfg.Ingest.Steps = flags.steps
	}
	if flags.seed != 0 {
		cfg.Ingest.Seed = flags.seed
	}
	if flags.width > 0 {
		cfg.Ingest.Width = flags.width
	}
	if flags.height > 0 {
		cfg.Ingest.Height = flags.height
	}
}

func queryCmd() *cobra.Command {
	flags := &queryFlags{}
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query a MYCO1 world",
		Long: `Query loads a MYCO1 file and runs a single-predicate spatial lookup or a
SQL-subset statement against it, printing the matching rows.

Examples:
  myco query --db world.myco1 --query "SELECT * FROM Track WHERE AlbumId = 2"
  myco query --db world.myco1 --query "SELECT t.name FROM tracks t JOIN albums a ON t.album_id = a.id" --sql-format json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runQuery(flags)
		},
	}

	cmd.Flags().StringVar(&flags.db, "db", "", "Path to a MYCO1 world file (required)")
	cmd.Flags().StringVar(&flags.query, "query", "", "Query text (required)")
	cmd.Flags().IntVar(&flags.dbRadius, "db-radius", 0, "Bounding-box radius for single-predicate spatial queries (0 = use config/default)")
	cmd.Flags().StringVar(&flags.sqlFormat, "sql-format", "", "Output format: table, csv, or json (default: table)")

	return cmd
}

func runQuery(flags *queryFlags) error {
	if flags.db == "" {
		return fmt.Errorf("MYCO-Fehler: --db is required")
	}
	if flags.query == "" {
		return fmt.Errorf("SQL-Fehler: --query is required")
	}

	cfg, err := loadConfig("")
	if err != nil {
		return fmt.Errorf("MYCO-Fehler: %w", err)
	}
	radius := flags.dbRadius
	if radius <= 0 {
		radius = cfg.Query.Radius
	}
	format := flags.sqlFormat
	if format == "" {
		format = cfg.Query.Format
	}

	f, err := os.Open(flags.db)
	if err != nil {
		return fmt.Errorf("MYCO-Fehler: failed to open world file: %w", err)
	}
	defer f.Close()
	w, err := myco1.Load(f)
	if err != nil {
		return fmt.Errorf("MYCO-Fehler: %w", err)
	}

	columns, rows, err := runQueryText(w, flags.query, radius)
	if err != nil {
		return fmt.Errorf("SQL-Fehler: %w", err)
	}

	formatted, err := output.FormatRows(columns, rows, format)
	if err != nil {
		return fmt.Errorf("SQL-Fehler: %w", err)
	}
	fmt.Print(formatted)
	return nil
}

// runQueryText dispatches to the fast single-predicate spatial path when
// the query text matches that narrower grammar (spec.md §4.7), falling
// back to the general SQL-subset interpreter (spec.md §4.8) otherwise.
func runQueryText(w *world.World, text string, radius int) ([]string, []output.Row, error) {
	if q, err := spatial.Parse(text); err == nil {
		hits := spatial.ExecuteQuery(w, q, radius)
		return payloadsToRows(w, hits)
	}

	rs, err := exec.Execute(w, text, nil)
	if err != nil {
		return nil, nil, err
	}
	rows := make([]output.Row, len(rs.Rows))
	for i := range rs.Rows {
		row := make(output.Row, len(rs.Columns))
		for _, c := range rs.Columns {
			if text, ok := rs.Rows[i].Text(c); ok {
				row[c] = text
			}
		}
		rows[i] = row
	}
	return rs.Columns, rows, nil
}

func payloadsToRows(w *world.World, payloads []*world.Payload) ([]string, []output.Row, error) {
	seen := make(map[string]bool)
	var columns []string
	for _, p := range payloads {
		for _, f := range p.Fields {
			if !seen[f.Name] {
				seen[f.Name] = true
				columns = append(columns, f.Name)
			}
		}
	}
	rows := make([]output.Row, len(payloads))
	for i, p := range payloads {
		row := make(output.Row, len(columns))
		for _, f := range p.Fields {
			row[f.Name] = f.Value
		}
		rows[i] = row
	}
	return columns, rows, nil
}

func mirrorCmd() *cobra.Command {
	flags := &mirrorFlags{}
	cmd := &cobra.Command{
		Use:   "mirror",
		Short: "Replay a MYCO1 world as MySQL DDL/DML (supplemental debug aid)",
		Long: `Mirror connects to a MySQL instance and replays the ingested tables and
payloads as CREATE TABLE/INSERT statements. This is an external debug aid:
it never affects ingest/query exit codes.

Examples:
  myco mirror --db world.myco1 --dsn "user:pass@tcp(localhost:3306)/mydb"
  myco mirror --db world.myco1 --dsn "user:pass@tcp(localhost:3306)/mydb" --dry-run`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runMirror(flags)
		},
	}

	cmd.Flags().StringVar(&flags.db, "db", "", "Path to a MYCO1 world file (required)")
	cmd.Flags().StringVar(&flags.dsn, "dsn", "", "MySQL connection string (required unless --dry-run)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Print statements without executing them")

	return cmd
}

func runMirror(flags *mirrorFlags) error {
	if flags.db == "" {
		return fmt.Errorf("MYCO-Fehler: --db is required")
	}
	if flags.dsn == "" && !flags.dryRun {
		return fmt.Errorf("MYCO-Fehler: --dsn is required unless --dry-run is set")
	}

	f, err := os.Open(flags.db)
	if err != nil {
		return fmt.Errorf("MYCO-Fehler: failed to open world file: %w", err)
	}
	defer f.Close()
	w, err := myco1.Load(f)
	if err != nil {
		return fmt.Errorf("MYCO-Fehler: %w", err)
	}

	statements := mirror.Statements(w)
	exporter := mirror.NewExporter(flags.dsn, os.Stdout)

	if flags.dryRun {
		return exporter.Run(context.Background(), statements, true)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := exporter.Connect(ctx); err != nil {
		return err
	}
	defer exporter.Close()

	return exporter.Run(ctx, statements, false)
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.ParseFile(path)
}
