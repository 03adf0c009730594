package cmd

import (
	"bytes"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/shacklettbp/miwe/contact"
	"github.com/shacklettbp/miwe/world"
)

func newTable(buf *bytes.Buffer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader(header)
	return table
}

func displayContacts(contacts []contact.Contact, events []contact.Event, entityName func(int) string) {
	var buf bytes.Buffer
	table := newTable(&buf, "Reference", "Other", "Points", "Max depth", "Normal")
	for _, c := range contacts {
		table.Append([]string{
			entityName(int(c.Ref)),
			entityName(int(c.Alt)),
			fmt.Sprintf("%d", c.NumPoints),
			fmt.Sprintf("%.4f", c.MaxDepth()),
			fmt.Sprintf("(%.3f, %.3f, %.3f)", c.Normal[0], c.Normal[1], c.Normal[2]),
		})
	}
	table.SetFooter([]string{"", "", "", "TOTAL", fmt.Sprintf("%d", len(contacts))})
	table.Render()
	logger.Noticef("contacts\n%s", buf.String())

	if len(events) == 0 {
		return
	}

	buf.Reset()
	table = newTable(&buf, "A", "B")
	for _, ev := range events {
		table.Append([]string{entityName(int(ev.A)), entityName(int(ev.B))})
	}
	table.Render()
	logger.Noticef("collision events\n%s", buf.String())
}

func displayWorkerStats(stats world.PassStats) {
	var buf bytes.Buffer
	table := newTable(&buf, "Worker", "Pairs", "% of pairs", "Scratch", "Pass time")
	for _, stat := range stats.Workers {
		table.Append([]string{
			fmt.Sprintf("%d", stat.Id),
			fmt.Sprintf("%d", stat.BlockSize),
			fmt.Sprintf("%02.1f %%", stat.PairPercent),
			fmt.Sprintf("%d", stat.ScratchUsed),
			stat.PassTime.String(),
		})
	}
	table.SetFooter([]string{"", "", "", "NARROWPHASE", stats.NarrowphaseTime.String()})
	table.Render()
	logger.Noticef("worker statistics\n%s", buf.String())
}

func displayPassStats(passes []world.PassStats) {
	var (
		buf                   bytes.Buffer
		broadTime, narrowTime time.Duration
	)

	table := newTable(&buf, "Pass", "Pairs", "Early exits", "Contacts", "Events", "Broadphase", "Narrowphase")
	for idx, stats := range passes {
		table.Append([]string{
			fmt.Sprintf("%d", idx),
			fmt.Sprintf("%d", stats.Pairs),
			fmt.Sprintf("%d", stats.EarlyExits),
			fmt.Sprintf("%d", stats.Contacts),
			fmt.Sprintf("%d", stats.Events),
			stats.BroadphaseTime.String(),
			stats.NarrowphaseTime.String(),
		})
		broadTime += stats.BroadphaseTime
		narrowTime += stats.NarrowphaseTime
	}
	if len(passes) > 0 {
		n := time.Duration(len(passes))
		table.SetFooter([]string{"", "", "", "", "AVERAGE", (broadTime / n).String(), (narrowTime / n).String()})
	}
	table.Render()
	logger.Noticef("pass statistics\n%s", buf.String())
}
