// Command clickgraph-cli is an interactive REPL: load a named YAML
// catalog, then type Cypher and see the ClickHouse SQL it translates
// to.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/clickgraph/clickgraph"
	"github.com/clickgraph/clickgraph/internal/catalogyaml"
)

const helpText = `clickgraph interactive REPL

Commands:
  load <name> <file>   Load a YAML catalog from a file
  unload <name>        Remove a loaded catalog
  list                 List all loaded catalogs
  use <name>           Set the active catalog for translation
  tenant <id>          Bind tenant_id for subsequent translations (empty clears it)
  help                 Show this help message
  exit / quit          Exit the REPL

Any other input is treated as Cypher text translated against the
active catalog.

Examples:
  MATCH (u:User)-[:FOLLOWS]->(f:User) RETURN u.name, f.name
  MATCH (u:User) WHERE u.name = 'ada' RETURN u.name LIMIT 10
`

func main() {
	catalogs := make(map[string]clickgraph.GraphSchema)
	var active string
	var tenant string

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("clickgraph — Cypher to ClickHouse SQL translator")
	fmt.Println(`Type "help" for available commands.`)
	fmt.Println()

	for {
		if active != "" {
			fmt.Printf("[%s]> ", active)
		} else {
			fmt.Print("> ")
		}

		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])

		switch cmd {
		case "exit", "quit":
			return

		case "help":
			fmt.Print(helpText)

		case "list":
			if len(catalogs) == 0 {
				fmt.Println("(no catalogs loaded)")
			} else {
				for name := range catalogs {
					marker := " "
					if name == active {
						marker = "*"
					}
					fmt.Printf("  %s %s\n", marker, name)
				}
			}

		case "use":
			if len(parts) < 2 {
				fmt.Fprintln(os.Stderr, "usage: use <name>")
				continue
			}
			name := parts[1]
			if _, ok := catalogs[name]; !ok {
				fmt.Fprintf(os.Stderr, "no catalog named %q\n", name)
				continue
			}
			active = name
			fmt.Printf("active catalog set to %q\n", name)

		case "tenant":
			if len(parts) < 2 {
				tenant = ""
				fmt.Println("tenant id cleared")
				continue
			}
			tenant = parts[1]
			fmt.Printf("tenant id set to %q\n", tenant)

		case "load":
			if len(parts) < 3 {
				fmt.Fprintln(os.Stderr, "usage: load <name> <file>")
				continue
			}
			name, path := parts[1], parts[2]
			sch, err := catalogyaml.Load(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error loading %q: %v\n", path, err)
				continue
			}
			catalogs[name] = sch
			if active == "" {
				active = name
			}
			fmt.Printf("loaded %q (%d node types, %d edge types)\n", name, len(sch.AllNodeTypes()), len(sch.AllEdgeTypes()))

		case "unload":
			if len(parts) < 2 {
				fmt.Fprintln(os.Stderr, "usage: unload <name>")
				continue
			}
			name := parts[1]
			if _, ok := catalogs[name]; !ok {
				fmt.Fprintf(os.Stderr, "no catalog named %q\n", name)
				continue
			}
			delete(catalogs, name)
			if active == name {
				active = ""
			}
			fmt.Printf("unloaded %q\n", name)

		default:
			if active == "" {
				fmt.Fprintln(os.Stderr, "no active catalog — use 'load' or 'use' first")
				continue
			}
			var tenantPtr *string
			if tenant != "" {
				tenantPtr = &tenant
			}
			res, err := clickgraph.Translate(context.Background(), line, catalogs[active], tenantPtr, nil, clickgraph.DefaultConfig)
			if err != nil {
				fmt.Fprintf(os.Stderr, "translate error: %v\n", err)
			} else {
				fmt.Println(res.SQL)
			}
		}
	}
}
