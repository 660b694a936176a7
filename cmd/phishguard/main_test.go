package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phishguard/phishguard/internal/classifier"
	"github.com/phishguard/phishguard/internal/presenter"
	"github.com/phishguard/phishguard/internal/report"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCheckText(t *testing.T) {
	out, err := execute(t, "", "check", "http://192.168.1.1/page")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(out, presenter.ThreatTitle) {
		t.Fatalf("expected threat title, got %q", out)
	}
	if !strings.Contains(out, "Raw IP address usage detected (High Risk).") {
		t.Fatalf("expected raw ip reason, got %q", out)
	}
}

func TestCheckSafe(t *testing.T) {
	out, err := execute(t, "", "check", "https://example.com")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(out, presenter.SafeTitle) || !strings.Contains(out, presenter.SafeDetail) {
		t.Fatalf("expected safe view, got %q", out)
	}
}

func TestCheckJSONExplainRisk(t *testing.T) {
	out, err := execute(t, "", "check", "--json", "--explain", "--risk", "http://10.0.0.1/login")
	if err != nil {
		t.Fatalf("check: %v", err)
	}

	var got checkOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if got.Rule != "social-engineering-keywords" {
		t.Fatalf("expected keyword rule first, got %q", got.Rule)
	}
	if len(got.Matches) != 3 {
		t.Fatalf("expected 3 matching rules, got %d", len(got.Matches))
	}
	if got.Score == nil || *got.Score != 80 {
		t.Fatalf("expected score 80, got %v", got.Score)
	}
	if got.Risk == nil || got.Risk.RiskScore != 70 {
		t.Fatalf("expected risk score 70, got %+v", got.Risk)
	}
}

func TestCheckRequiresURL(t *testing.T) {
	if _, err := execute(t, "", "check"); err == nil {
		t.Fatalf("expected error without url")
	}
}

func TestScanJSONLThenReport(t *testing.T) {
	dir := t.TempDir()
	jsonlPath := filepath.Join(dir, "scan.jsonl")
	input := strings.Join([]string{
		"# sample",
		"https://example.com",
		"http://free-prize.net",
		"",
		"http://8.8.8.8",
		"http://example.org",
	}, "\n")

	if _, err := execute(t, input, "scan", "--in", "-", "--format", "jsonl", "--out", jsonlPath, "--workers", "2"); err != nil {
		t.Fatalf("scan: %v", err)
	}

	f, err := os.Open(jsonlPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	entries, err := report.ReadJSONL(f)
	if err != nil {
		t.Fatalf("read jsonl: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}
	if entries[0].URL != "https://example.com" || entries[0].Verdict != classifier.Safe.String() {
		t.Fatalf("unexpected first entry %+v", entries[0])
	}
	if entries[2].RuleID != "raw-ip-address" {
		t.Fatalf("expected raw ip rule, got %+v", entries[2])
	}

	out, err := execute(t, "", "report", "--in", jsonlPath, "--format", "json")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	var summary report.Summary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Total != 4 || summary.Safe != 1 || summary.Suspicious != 3 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestScanUnknownFormat(t *testing.T) {
	if _, err := execute(t, "https://example.com\n", "scan", "--in", "-", "--format", "xml"); err == nil {
		t.Fatalf("expected unknown format error")
	}
}

func TestRulesCommand(t *testing.T) {
	out, err := execute(t, "", "rules")
	if err != nil {
		t.Fatalf("rules: %v", err)
	}
	keyword := strings.Index(out, "social-engineering-keywords")
	rawIP := strings.Index(out, "raw-ip-address")
	scheme := strings.Index(out, "insecure-scheme")
	if keyword < 0 || rawIP < keyword || scheme < rawIP {
		t.Fatalf("rules out of order:\n%s", out)
	}
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	if err := os.WriteFile(good, []byte("configVersion: 1\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := execute(t, "", "validate", "-c", good)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "config ok") {
		t.Fatalf("unexpected output %q", out)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("configVersion: 2\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := execute(t, "", "validate", "-c", bad); err == nil {
		t.Fatalf("expected validation error")
	}

	if _, err := execute(t, "", "validate"); err == nil {
		t.Fatalf("expected error without config path")
	}
}

func TestRunConsole(t *testing.T) {
	p := presenter.New(classifier.Default(), 0)
	var out bytes.Buffer
	in := strings.NewReader("\nhttp://bank-verify.com\nhttps://example.com\n")

	if err := runConsole(context.Background(), p, in, &out); err != nil {
		t.Fatalf("console: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "please enter a URL") {
		t.Fatalf("expected empty input prompt, got %q", text)
	}
	if strings.Count(text, presenter.ScanningText) != 2 {
		t.Fatalf("expected two scans, got %q", text)
	}
	if !strings.Contains(text, "Suspicious keywords detected (Social Engineering).") {
		t.Fatalf("expected keyword verdict, got %q", text)
	}
	if !strings.Contains(text, presenter.SafeTitle) {
		t.Fatalf("expected safe verdict, got %q", text)
	}
}
