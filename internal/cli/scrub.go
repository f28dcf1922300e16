package cli

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/pipeline"
)

// Scrubber styles
var (
	scrubBarStyle   = lipgloss.NewStyle().Foreground(colorCyan)
	scrubTrackStyle = lipgloss.NewStyle().Foreground(colorDim)
	scrubEventStyle = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
)

const scrubBarWidth = 40

// scrubCommand creates the scrub command.
func (c *CLI) scrubCommand() *cobra.Command {
	var noCache bool
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "scrub [scene]",
		Short: "Step through the transition of a scene interactively",
		Long: `Step through the sampled transition of a scene in the terminal.

←/→ or h/l step one sample, shift+←/→ or H/L step ten, g/G jump to the
start or the end, and q quits. Each step shows every widget's frame and
attributes, and the trigger events fired at that sample.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Logger = c.Logger
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runScrub(cmd.Context(), args[0], noCache, opts)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntVar(&opts.Frames, "frames", pipeline.DefaultFrames, "number of samples, endpoints included")
	cmd.Flags().StringVar(&opts.Duration, "duration", "", "override the scene duration, e.g. 300ms")
	solveFlags(cmd, &opts)

	return cmd
}

func (c *CLI) runScrub(ctx context.Context, input string, noCache bool, opts pipeline.Options) error {
	doc, err := loadScene(ctx, input)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	a, err := runner.Animate(ctx, doc, opts)
	if err != nil {
		return fmt.Errorf("animate %s: %w", input, err)
	}

	_, err = tea.NewProgram(NewScrubModel(a), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// ScrubModel - Interactive transition scrubber
// =============================================================================

// ScrubModel is the bubbletea model for stepping through the samples of
// an animation.
type ScrubModel struct {
	Animation *pipeline.Animation
	Index     int
}

// NewScrubModel creates a scrubber positioned at the first sample.
func NewScrubModel(a *pipeline.Animation) ScrubModel {
	return ScrubModel{Animation: a}
}

func (m ScrubModel) Init() tea.Cmd {
	return nil
}

func (m ScrubModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	last := len(m.Animation.Samples) - 1
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "left", "h":
		m.Index--
	case "right", "l", " ":
		m.Index++
	case "shift+left", "H":
		m.Index -= 10
	case "shift+right", "L":
		m.Index += 10
	case "home", "g":
		m.Index = 0
	case "end", "G":
		m.Index = last
	}
	m.Index = max(0, min(m.Index, last))
	return m, nil
}

func (m ScrubModel) View() string {
	a := m.Animation
	if len(a.Samples) == 0 {
		return StyleDim.Render("no samples") + "\n"
	}
	s := a.Samples[m.Index]

	var b strings.Builder
	title := "Transition"
	if a.Scene != "" {
		title = a.Scene
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←/→ step  H/L ×10  g/G ends  q quit"))
	b.WriteString("\n\n")

	b.WriteString(progressBar(s.Progress, scrubBarWidth))
	fmt.Fprintf(&b, "  %s %s\n\n",
		StyleNumber.Render(fmt.Sprintf("%3.0f%%", s.Progress*100)),
		StyleDim.Render(fmt.Sprintf("%.0fms  [%d/%d]", s.TimeMS, s.Index+1, len(a.Samples))))

	b.WriteString(sampleTable(s))
	b.WriteString("\n")

	for _, e := range s.Events {
		b.WriteString(scrubEventStyle.Render("⚑ "+e.Name) + StyleDim.Render(" on "+e.Widget))
		b.WriteString("\n")
	}
	return b.String()
}

// progressBar draws progress in [0, 1] as a bar of width cells.
func progressBar(progress float64, width int) string {
	filled := int(progress*float64(width) + 0.5)
	filled = max(0, min(filled, width))
	return scrubBarStyle.Render(strings.Repeat("█", filled)) +
		scrubTrackStyle.Render(strings.Repeat("░", width-filled))
}

// sampleTable renders the widget states of one sample.
func sampleTable(s pipeline.Sample) string {
	rows := make([][]string, 0, len(s.Widgets))
	for _, w := range s.Widgets {
		alpha, _ := w.Attr("alpha")
		rows = append(rows, []string{
			w.ID,
			strconv.Itoa(w.X), strconv.Itoa(w.Y),
			strconv.Itoa(w.Width), strconv.Itoa(w.Height),
			strconv.FormatFloat(alpha, 'f', 2, 64),
			w.Visibility,
			attrSummary(w),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Widget", "X", "Y", "Width", "Height", "Alpha", "Visibility", "Attributes").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if row < 0 || row >= len(s.Widgets) {
				return lipgloss.NewStyle()
			}
			switch {
			case s.Widgets[row].Visibility == "gone":
				return styleGone
			case col >= 1 && col <= 5:
				return StyleNumber
			case col == 7:
				return StyleDim
			}
			return StyleValue
		}).
		Render()
}

// attrSummary lists the attributes of w other than alpha, sorted by name.
func attrSummary(w pipeline.WidgetState) string {
	var parts []string
	for name, v := range w.Attrs {
		if name == "alpha" {
			continue
		}
		parts = append(parts, name+"="+strconv.FormatFloat(v, 'f', 2, 64))
	}
	for name, v := range w.Custom {
		parts = append(parts, name+"="+v)
	}
	if len(parts) == 0 {
		return iconDash
	}
	slices.Sort(parts)
	return strings.Join(parts, " ")
}
