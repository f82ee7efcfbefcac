package generate

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/uenv-dev/uenv/internal/mount"
	"github.com/uenv-dev/uenv/internal/repository"
	"github.com/uenv-dev/uenv/internal/shell"
)

// Find lists the repository records matching spec on cluster. An empty spec
// lists everything; an empty cluster lists every system.
func (g *Generator) Find(repo repository.Repository, cluster, uarch, spec string) (shell.Script, error) {
	if repo == nil {
		return fail(mount.ErrNoRepository)
	}

	var filter repository.Filter
	if spec != "" {
		f, err := repository.ParseReference(spec)
		if err != nil {
			return fail(err)
		}
		filter = f
	}
	filter.System = cluster
	filter.Uarch = uarch

	res, err := repo.Find(filter)
	if err != nil {
		return fail(err)
	}
	if res.IsEmpty() {
		return shell.Script{shell.Echo("no matching uenv"), shell.NoOp()}, nil
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "UENV\tSYSTEM\tUARCH\tID\tDATE")
	for _, rec := range res.Records {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", rec, rec.System, rec.Uarch, rec.ID(), rec.Date)
	}
	_ = w.Flush()

	var script shell.Script
	for _, line := range strings.Split(strings.TrimRight(sb.String(), "\n"), "\n") {
		script = append(script, shell.Echo(strings.TrimRight(line, " ")))
	}
	return append(script, shell.NoOp()), nil
}
