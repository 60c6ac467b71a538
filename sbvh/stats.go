package sbvh

import (
	"bytes"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
)

// Stats captures structural and timing information from a build.
type Stats struct {
	// Total node count (leaves included) and leaf count.
	Nodes int
	Leafs int

	// Deepest interior-to-leaf path.
	MaxDepth int

	// Geometries supplied by the caller vs references surviving in leaf
	// spans. With spatial splitting the reordered list may reference one
	// geometry from several leaves.
	InputGeometries   int
	OrderedGeometries int

	// Straddling references replaced by clip fragments, and the number of
	// fragments created. Zero unless spatial splitting is selected.
	StraddlingReplaced int
	Fragments          int

	BuildTime time.Duration
}

// String builds a tabular representation of the build statistics.
func (st Stats) String() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Statistic", "Value"})
	table.Append([]string{"Nodes", strconv.Itoa(st.Nodes)})
	table.Append([]string{"Leafs", strconv.Itoa(st.Leafs)})
	table.Append([]string{"Max depth", strconv.Itoa(st.MaxDepth)})
	table.Append([]string{"Input geometries", strconv.Itoa(st.InputGeometries)})
	table.Append([]string{"Leaf references", strconv.Itoa(st.OrderedGeometries)})
	table.Append([]string{"Straddling replaced", strconv.Itoa(st.StraddlingReplaced)})
	table.Append([]string{"Clip fragments", strconv.Itoa(st.Fragments)})
	table.Append([]string{"Build time", st.BuildTime.Round(time.Microsecond).String()})
	table.Render()
	return buf.String()
}
