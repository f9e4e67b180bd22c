package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"fitsmeta/pkg/fitsmeta"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Summarize a FITS image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := os.Stat(args[0])
		if err != nil {
			return err
		}
		frame, err := loadFrame(args[0])
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		m := frame.Matrix
		lo, hi := m.MinMax()
		stats := fitsmeta.CalculateStatistics(m)

		fmt.Fprintf(w, "File:       %s (%s)\n", args[0], humanize.Bytes(uint64(st.Size())))
		fmt.Fprintf(w, "Frame:      %s\n", frame)
		fmt.Fprintf(w, "Keywords:   %d\n", frame.Header.Len())
		fmt.Fprintf(w, "Object:     %s\n", frame.ObjectName())
		if t := frame.DateObs(); !t.IsZero() {
			fmt.Fprintf(w, "Observed:   %s (%s)\n", t.Format("2006-01-02 15:04:05"), humanize.Time(t))
		}
		if exp, ok := frame.Header.ExposureTime(); ok {
			fmt.Fprintf(w, "Exposure:   %gs\n", exp)
		}
		fmt.Fprintf(w, "Size:       %d x %d (%s pixels)\n", m.Width(), m.Height(), humanize.Comma(int64(m.Width()*m.Height())))
		fmt.Fprintf(w, "Range:      %g .. %g\n", lo, hi)
		fmt.Fprintf(w, "Median:     %g (MAD %g, %s finite)\n", stats.Median, stats.MAD, humanize.Comma(int64(stats.Count)))
		if c, ok := frame.Scale.Center(); ok {
			fmt.Fprintf(w, "Center:     %s\n", c)
			fmt.Fprintf(w, "Field:      %.1f\" x %.1f\" (radius %.1f\")\n",
				frame.Scale.FieldSizeX(), frame.Scale.FieldSizeY(), frame.Scale.FieldRadius())
		} else {
			fmt.Fprintln(w, "Center:     unset")
		}
		return nil
	},
}
