package main

import "testing"

func TestStepsDefaultsPerCommand(t *testing.T) {
	root := newRootCmd()

	tests := []struct {
		cmd  string
		got  *int
		want int
	}{
		{"run", &runSteps, 600},
		{"trace", &traceSteps, 600},
		{"export-csv", &exportSteps, 300},
		{"export-svg", &exportSteps, 300},
		{"export-png", &exportSteps, 300},
	}
	for _, tt := range tests {
		c, _, err := root.Find([]string{tt.cmd})
		if err != nil {
			t.Fatalf("find %s: %v", tt.cmd, err)
		}
		f := c.Flags().Lookup("steps")
		if f == nil {
			t.Fatalf("%s has no --steps flag", tt.cmd)
		}
		if *tt.got != tt.want {
			t.Errorf("%s: steps = %d, want %d", tt.cmd, *tt.got, tt.want)
		}
	}
}

func TestStepsFlagsAreIndependent(t *testing.T) {
	root := newRootCmd()
	c, _, err := root.Find([]string{"export-svg"})
	if err != nil {
		t.Fatal(err)
	}
	if err := c.ParseFlags([]string{"--steps", "5"}); err != nil {
		t.Fatal(err)
	}
	if exportSteps != 5 {
		t.Errorf("export steps = %d, want 5", exportSteps)
	}
	if runSteps != 600 || traceSteps != 600 {
		t.Errorf("export --steps leaked into run/trace: run=%d trace=%d", runSteps, traceSteps)
	}
}

func TestLoadConfigFlagsOverridePreset(t *testing.T) {
	root := newRootCmd()
	c, _, err := root.Find([]string{"run"})
	if err != nil {
		t.Fatal(err)
	}
	if err := c.ParseFlags([]string{"--preset", "lively", "--seed", "42", "--data", t.TempDir()}); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(c)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Seed != 42 {
		t.Errorf("seed = %d, want 42", cfg.Seed)
	}
	if cfg.Drift.Amplitude != 80 {
		t.Errorf("lively amplitude = %v, want 80", cfg.Drift.Amplitude)
	}

	preset, seed, dataDir = "", 0, ".skyfloat"
}
