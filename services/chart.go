package services

// ChartConfig is the Chart.js configuration rendered into the dashboard.
type ChartConfig struct {
	Type    string       `json:"type"`
	Data    ChartData    `json:"data"`
	Options ChartOptions `json:"options"`
}

type ChartData struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

type ChartDataset struct {
	Label           string `json:"label"`
	Data            []int  `json:"data"`
	BackgroundColor string `json:"backgroundColor"`
	BorderColor     string `json:"borderColor"`
	BorderWidth     int    `json:"borderWidth"`
}

type ChartOptions struct {
	Scales              ChartScales `json:"scales"`
	Responsive          bool        `json:"responsive"`
	MaintainAspectRatio bool        `json:"maintainAspectRatio"`
}

type ChartScales struct {
	Y ChartAxis `json:"y"`
}

type ChartAxis struct {
	BeginAtZero bool       `json:"beginAtZero"`
	Ticks       ChartTicks `json:"ticks"`
}

type ChartTicks struct {
	StepSize int `json:"stepSize"`
}

// BuildProformasChart returns a bar chart of proformas per period. Labels and
// counts are paired by position; extra entries on either side are dropped.
func BuildProformasChart(labels []string, counts []int) ChartConfig {
	n := min(len(labels), len(counts))

	return ChartConfig{
		Type: "bar",
		Data: ChartData{
			Labels: append([]string{}, labels[:n]...),
			Datasets: []ChartDataset{{
				Label:           "# de Proformas",
				Data:            append([]int{}, counts[:n]...),
				BackgroundColor: "rgba(13, 110, 253, 0.7)",
				BorderColor:     "rgba(13, 110, 253, 1)",
				BorderWidth:     1,
			}},
		},
		Options: ChartOptions{
			Scales:              ChartScales{Y: ChartAxis{BeginAtZero: true, Ticks: ChartTicks{StepSize: 1}}},
			Responsive:          true,
			MaintainAspectRatio: false,
		},
	}
}

// SumCounts totals the chart series.
func SumCounts(counts []int) int {
	total := 0
	for _, c := range counts {
		total += c
	}
	return total
}
