package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Storage publishes finished analysis tables to a hosted libsql database so
// runs from different machines and languages can be compared in one place.
// It is entirely optional; the local CSV files stay authoritative.
type Storage struct {
	OrgName   string
	GroupName string
	ApiToken  string
	AuthToken string
	DbName    string
}

func (s *Storage) CreateDatabase(name string) error {
	url := fmt.Sprintf("https://api.turso.tech/v1/organizations/%v/databases", s.OrgName)
	req, err := http.NewRequest("POST", url, bytes.NewReader([]byte(fmt.Sprintf(`{"name":"%v","group":"%v"}`, name, s.GroupName))))
	if err != nil {
		return err
	}
	req.Header.Add("Authorization", "Bearer "+s.ApiToken)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != 200 {
		return fmt.Errorf("unexpected status code %v: %v", resp.StatusCode, string(body))
	}
	Logger.Infof("created database %v", name)
	return nil
}

func (s *Storage) ConnectDb(name string) (*sql.DB, error) {
	url := fmt.Sprintf("libsql://%v-%v.turso.io?authToken=%v", name, s.OrgName, s.AuthToken)
	return sql.Open("libsql", url)
}

func (s *Storage) InitResultsDb(db *sql.DB, meta map[string]any) error {
	_, err := db.Exec("CREATE TABLE IF NOT EXISTS parameters (name TEXT PRIMARY KEY, value)")
	if err != nil {
		return err
	}
	for key, value := range meta {
		_, err = db.Exec("INSERT INTO parameters VALUES (?, ?) ON CONFLICT DO NOTHING", key, fmt.Sprintf("%v", value))
		if err != nil {
			return err
		}
	}
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS aggregates (
		impl_name TEXT,
		scenario TEXT,
		n INTEGER,
		ns_per_op REAL,
		PRIMARY KEY (impl_name, scenario, n)
	)`)
	if err != nil {
		return err
	}
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS break_even (
		n INTEGER,
		scenario TEXT,
		baseline TEXT,
		impl TEXT,
		break_even_ops REAL,
		PRIMARY KEY (n, scenario, baseline, impl)
	)`)
	if err != nil {
		return err
	}
	Logger.Infof("initialized results database with meta %v", meta)
	return nil
}

func (s *Storage) UploadAggregates(db *sql.DB, stats []AggregatedStat) error {
	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	for _, stat := range stats {
		_, err = tx.Exec(
			"INSERT INTO aggregates VALUES (?, ?, ?, ?)",
			stat.ImplName, stat.Scenario, stat.N, stat.NsPerOp,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Storage) UploadBreakEven(db *sql.DB, estimates []BreakEvenEstimate) error {
	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	for _, estimate := range estimates {
		// SQLite has no literal for non-finite REALs; store them as text the
		// same way the CSV surface spells them.
		value := any(estimate.BreakEvenOps)
		if math.IsInf(estimate.BreakEvenOps, 0) || math.IsNaN(estimate.BreakEvenOps) {
			value = formatCsvFloat(estimate.BreakEvenOps)
		}
		_, err = tx.Exec(
			"INSERT INTO break_even VALUES (?, ?, ?, ?, ?)",
			estimate.N, estimate.Scenario, estimate.Baseline, estimate.Impl, value,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Publish creates (or reuses) a results database and uploads the aggregated
// and break-even tables together with the host parameters of this run.
func (s *Storage) Publish(info SysInfo, stats []AggregatedStat, estimates []BreakEvenEstimate) error {
	name := s.DbName
	if name == "" {
		name = fmt.Sprintf("array-benchmark-%v-%v-%v", Version, time.Now().Unix(), rand.Intn(1000))
		if err := s.CreateDatabase(name); err != nil {
			return fmt.Errorf("unable to create results db %v: %w", name, err)
		}
	}
	db, err := s.ConnectDb(name)
	if err != nil {
		return fmt.Errorf("unable to connect to results db %v: %w", name, err)
	}
	defer db.Close()

	err = s.InitResultsDb(db, map[string]any{
		"time":     time.Now().Format("2006-01-02 15:04:05"),
		"arch":     info.Arch,
		"hostname": info.Hostname,
		"platform": info.Platform,
		"ram":      info.RAM,
		"cpu":      info.CPUCount,
		"freq":     info.CPUFreq,
	})
	if err != nil {
		return fmt.Errorf("unable to initialize results db %v: %w", name, err)
	}
	if err := s.UploadAggregates(db, stats); err != nil {
		return fmt.Errorf("failed to upload aggregates to %v: %w", name, err)
	}
	if err := s.UploadBreakEven(db, estimates); err != nil {
		return fmt.Errorf("failed to upload break-even estimates to %v: %w", name, err)
	}
	Logger.Infof("published %v aggregate and %v break-even rows to %v", len(stats), len(estimates), name)
	return nil
}
