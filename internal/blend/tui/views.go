package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"

	"github.com/mabhi256/bdiag/internal/blend/analyzer"
	"github.com/mabhi256/bdiag/utils"
)

const maxChartBars = 12

func (m *Model) renderOverview() string {
	var sb strings.Builder

	status := utils.GoodStyle.Render("✅ No integrity findings")
	if !m.report.Clean() {
		status = utils.WarningStyle.Render(fmt.Sprintf("⚠️  %d orphans · %d homeless addresses · %d odd · %d collisions",
			len(m.report.Orphans),
			len(m.report.Homeless.Addresses),
			len(m.report.Addresses.Odd),
			len(m.report.Addresses.Collisions)))
	}
	sb.WriteString(status)
	sb.WriteString("\n\n")

	sb.WriteString(utils.TextStyle.Render("Blocks per category code"))
	sb.WriteString("\n")
	sb.WriteString(m.renderCodeChart())
	sb.WriteString("\n")

	for _, cc := range m.summary.CodeCounts {
		sb.WriteString(utils.MutedStyle.Render(
			fmt.Sprintf("  %-4s %6d blocks  %8s", cc.Code, cc.Count, utils.MemorySize(cc.Bytes))))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m *Model) renderCodeChart() string {
	counts := m.summary.CodeCounts
	if len(counts) == 0 {
		return utils.MutedStyle.Render("  no blocks")
	}
	if len(counts) > maxChartBars {
		counts = counts[:maxChartBars]
	}

	width := m.width - 4
	if width < 20 {
		width = 20
	}
	bc := barchart.New(width, 10)
	for _, cc := range counts {
		bc.Push(barchart.BarData{
			Label: cc.Code,
			Values: []barchart.BarValue{
				{Name: cc.Code, Value: float64(cc.Count), Style: utils.InfoStyle},
			},
		})
	}
	bc.Draw()
	return bc.View()
}

func (m *Model) renderOrphans() string {
	if len(m.report.Orphans) == 0 {
		return utils.GoodStyle.Render("No orphaned blocks.")
	}

	var sb strings.Builder
	sb.WriteString(utils.WarningStyle.Render(fmt.Sprintf("Orphaned blocks: %d", len(m.report.Orphans))))
	sb.WriteString("\n")
	sb.WriteString(utils.MutedStyle.Render("Raw occurrences > 0 with no inverses means a shared or unreached address."))
	sb.WriteString("\n\n")

	for _, orphan := range m.report.Orphans {
		b := orphan.Block
		sb.WriteString(utils.TextStyle.Render(fmt.Sprintf("  %s", b)))
		sb.WriteString("\n")
		sb.WriteString(utils.MutedStyle.Render(fmt.Sprintf("    packed %x · raw occurrences %d · %d block(s) with code %s",
			analyzer.PackAddress(b.Address), orphan.ByteOccurrences, orphan.CodeBlockCount, b.Code)))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m *Model) renderHomeless() string {
	homeless := m.report.Homeless
	if len(homeless.Addresses) == 0 {
		return utils.GoodStyle.Render("No homeless addresses.")
	}

	var sb strings.Builder
	sb.WriteString(utils.WarningStyle.Render(fmt.Sprintf("Homeless addresses: %d (%d references)",
		len(homeless.Addresses), homeless.TotalRefs)))
	sb.WriteString("\n\n")

	for _, addr := range homeless.Addresses {
		sb.WriteString(utils.TextStyle.Render(fmt.Sprintf("  0x%x", addr)))
		sb.WriteString("\n")
		for _, ref := range m.refs.Refs(addr) {
			sb.WriteString(utils.MutedStyle.Render(fmt.Sprintf("    ← %s", ref)))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (m *Model) renderAddresses() string {
	addresses := m.report.Addresses
	if len(addresses.Odd) == 0 && len(addresses.Collisions) == 0 {
		return utils.GoodStyle.Render("All block addresses are unique and stable.")
	}

	var sb strings.Builder
	if len(addresses.Odd) > 0 {
		sb.WriteString(utils.WarningStyle.Render(fmt.Sprintf("Blocks without a stable address: %d", len(addresses.Odd))))
		sb.WriteString("\n")
		for _, b := range addresses.Odd {
			sb.WriteString(utils.MutedStyle.Render(fmt.Sprintf("  %s", b)))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if len(addresses.Collisions) > 0 {
		sb.WriteString(utils.CriticalStyle.Render(fmt.Sprintf("Address collisions: %d", len(addresses.Collisions))))
		sb.WriteString("\n")
		for _, col := range addresses.Collisions {
			sb.WriteString(utils.MutedStyle.Render(
				fmt.Sprintf("  0x%x: %s collides with earlier %s", col.Address, col.Duplicate, col.Canonical)))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
