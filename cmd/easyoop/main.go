// easyoop CLI - loads a project manifest, bootstraps its namespace and
// prints the class tree.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chazu/easyoop/manifest"
	"github.com/chazu/easyoop/namespace"
	"github.com/chazu/easyoop/oop"
	"github.com/chazu/easyoop/ready"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

// builtinPackage hosts the built-in descriptors in every namespace. The
// built-ins are process-global, so the package name is fixed and every
// namespace completes them to the same "zebra.Dummy" and "zebra.Extended".
const builtinPackage = "zebra"

func main() {
	verbosity := flag.Int("v", -1, "Log verbosity (overrides the manifest; 0 quiet, 2 info, 4 debug)")
	dir := flag.String("C", ".", "Directory to search for easyoop.toml")
	showTree := flag.Bool("tree", true, "Print the class tree once the namespace is ready")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: easyoop [options]\n\n")
		fmt.Fprintf(os.Stderr, "Bootstraps the namespace described by easyoop.toml and prints its classes.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	m, err := manifest.FindAndLoad(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading manifest: %v\n", err)
		os.Exit(1)
	}
	if m == nil {
		m = manifest.Default(*dir)
	}

	level := m.Log.Verbosity
	if *verbosity >= 0 {
		level = *verbosity
	}
	commonlog.Configure(level, m.LogFilePath())

	q := ready.New()
	ns, err := bootstrap(m, q)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	q.Ready(func() {
		if *showTree {
			writeTree(os.Stdout, ns)
		}
	})
	q.Ready()
}

// bootstrap seeds the manifest's namespace and completes class names. The
// queue stays busy until the caller reports ready.
func bootstrap(m *manifest.Manifest, q *ready.Queue) (*namespace.Namespace, error) {
	ns, err := namespace.New(m.Project.Namespace)
	if err != nil {
		return nil, err
	}
	ns.SetEnv(m.Env)

	for _, name := range m.Packages.Names {
		if _, err := ns.Package(name); err != nil {
			return nil, err
		}
	}

	q.Busy()
	defer q.Ready()

	builtins, err := ns.Package(builtinPackage)
	if err != nil {
		return nil, err
	}
	for name, cls := range map[string]*oop.Class{"Dummy": oop.Dummy, "Extended": oop.Extended} {
		if err := builtins.Put(name, cls); err != nil {
			return nil, err
		}
	}
	ns.Complete()
	return ns, nil
}
