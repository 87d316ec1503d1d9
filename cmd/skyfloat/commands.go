package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/skyfloat/internal/balloon"
	"github.com/san-kum/skyfloat/internal/export"
	"github.com/san-kum/skyfloat/internal/metrics"
	"github.com/san-kum/skyfloat/internal/storage"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

func addTask(cmd *cobra.Command, args []string) error {
	cat, err := balloon.ParseCategory(category)
	if err != nil {
		return err
	}
	s, err := openSession(cmd, "")
	if err != nil {
		return err
	}
	defer s.Close()

	if _, ok := s.mgr.Create(joinArgs(args), cat); !ok {
		return fmt.Errorf("nothing to add: task text is blank")
	}
	fmt.Printf("added task %d\n", s.mgr.Len())
	return nil
}

func listTasks(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, "")
	if err != nil {
		return err
	}
	defer s.Close()

	if s.mgr.Len() == 0 {
		fmt.Println(dimStyle.Render("no tasks"))
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, headerStyle.Render("#")+"\tCATEGORY\tSIZE\tTASK")
	for i, b := range s.mgr.Balloons() {
		chip := lipgloss.NewStyle().Foreground(lipgloss.Color(b.Color)).Render("●")
		fmt.Fprintf(w, "%d\t%s %s\t%.0f\t%s\n", i+1, chip, b.Category, b.Size, b.Text)
	}
	return w.Flush()
}

// taskAt resolves a 1-based task number from the list command.
func (s *session) taskAt(arg string) (balloon.ID, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("bad task number %q", arg)
	}
	bs := s.mgr.Balloons()
	if n < 1 || n > len(bs) {
		return 0, fmt.Errorf("no task %d (have %d)", n, len(bs))
	}
	return bs[n-1].ID, nil
}

func editTask(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, "")
	if err != nil {
		return err
	}
	defer s.Close()

	id, err := s.taskAt(args[0])
	if err != nil {
		return err
	}
	if !s.mgr.Edit(id, joinArgs(args[1:])) {
		return fmt.Errorf("nothing to change: new text is blank")
	}
	fmt.Printf("edited task %s\n", args[0])
	return nil
}

func completeTask(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, "")
	if err != nil {
		return err
	}
	defer s.Close()

	id, err := s.taskAt(args[0])
	if err != nil {
		return err
	}
	text := s.mgr.Get(id).Text
	s.mgr.Complete(id)
	s.mgr.FinishRemoval(id)
	fmt.Printf("completed %q\n", text)
	return nil
}

func runHeadless(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, "")
	if err != nil {
		return err
	}
	defer s.Close()

	var csvOut io.WriteCloser
	if csvPath != "" {
		f, err := os.Create(csvPath)
		if err != nil {
			return err
		}
		defer f.Close()
		csvOut = f
	}

	ms := metrics.Defaults(s.mgr.Field())
	s.mgr.World().AddObserver(&metrics.Recorder{Metrics: ms, Balloons: s.mgr.Balloons})
	header := true
	for i := 0; i < runSteps; i++ {
		s.mgr.Step()
		if csvOut != nil && every > 0 && s.mgr.Steps()%every == 0 {
			rows := s.mgr.Frame().Rows()
			if header {
				err = storage.ExportCSV(csvOut, rows)
				header = len(rows) == 0
			} else {
				err = storage.AppendCSV(csvOut, rows)
			}
			if err != nil {
				return fmt.Errorf("failed to write csv: %w", err)
			}
		}
	}

	for _, b := range s.mgr.Balloons() {
		s.log.Info("balloon",
			"text", b.Text,
			"category", b.Category.String(),
			"y", b.Position().Y,
			"target_y", b.TargetY,
			"force_y", b.LastForce.Y)
	}

	fmt.Printf("simulated %d steps with %d balloons\n\n", runSteps, s.mgr.Len())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for _, m := range ms {
		fmt.Fprintf(w, "%s\t%.6f\n", m.Name(), m.Value())
	}
	return w.Flush()
}

// traceBalloon plots one balloon's altitude (distance above the floor)
// against its bobbing target.
func traceBalloon(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, "")
	if err != nil {
		return err
	}
	defer s.Close()

	id, err := s.taskAt(strconv.Itoa(index))
	if err != nil {
		return err
	}
	b := s.mgr.Get(id)
	h := s.mgr.Field().Height()

	alt := make([]float64, 0, traceSteps)
	target := make([]float64, 0, traceSteps)
	for i := 0; i < traceSteps; i++ {
		s.mgr.Step()
		alt = append(alt, h-b.Position().Y)
		target = append(target, h-s.mgr.Drift().Target(b))
	}
	if len(alt) == 0 {
		return fmt.Errorf("nothing to plot: --steps must be positive")
	}

	graph := asciigraph.PlotMany([][]float64{alt, target},
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red),
		asciigraph.Caption(fmt.Sprintf("altitude of %q (blue) vs target (red)", export.Label(b.Text, 30))),
	)
	fmt.Println(graph)

	if svgPath != "" {
		svg := export.TraceToSVG(alt, 800, 200, b.Color)
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("trace written to %s\n", svgPath)
	}
	return nil
}

// settle opens the field and steps it so exports show balloons in flight.
func settle(cmd *cobra.Command) (*session, error) {
	s, err := openSession(cmd, "")
	if err != nil {
		return nil, err
	}
	for i := 0; i < exportSteps; i++ {
		s.mgr.Step()
	}
	return s, nil
}

func output(data []byte) error {
	if outPath == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(outPath, data, 0644)
}

func panelSize(s *session) r2.Vec {
	return r2.Vec{X: s.cfg.Panel.Width, Y: s.cfg.Panel.Height}
}

func exportCSV(cmd *cobra.Command, args []string) error {
	s, err := settle(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	var buf bytes.Buffer
	if err := storage.ExportCSV(&buf, s.mgr.Frame().Rows()); err != nil {
		return err
	}
	return output(buf.Bytes())
}

func exportSVG(cmd *cobra.Command, args []string) error {
	s, err := settle(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	return output([]byte(export.FrameToSVG(s.mgr.Frame(), panelSize(s))))
}

func exportPNG(cmd *cobra.Command, args []string) error {
	if outPath == "" {
		return fmt.Errorf("export-png needs --out")
	}
	s, err := settle(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := export.PNG(s.mgr.Frame(), panelSize(s), outPath); err != nil {
		return err
	}
	fmt.Printf("frame written to %s\n", outPath)
	return nil
}
