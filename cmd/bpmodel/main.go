// Command bpmodel is a thin demonstration front end for loading and
// inspecting a model document. A full command-line interface is an
// external collaborator's job; this exists to exercise the load path
// end to end.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/inab/BP-Model/log"
	"github.com/inab/BP-Model/metaschema"
	"github.com/inab/BP-Model/model"
)

const usage = `usage: bpmodel [-schema=<path>] <command> <model.xml|model.zip>

Commands
   load        Load and resolve a model document, reporting success or the first error
   digest      Load a model document and print its four content digests
   dump        Load a model document and print its resolved JSON form

A .zip argument is loaded as a packaged archive (bp-model.xml, bp-schema.xsd,
signatures.txt, cv/): every digest in signatures.txt is verified against the
resolved model. Any other extension is loaded as a plain model document next
to its external cv/ files. In both modes, -schema (when given) additionally
validates the model document against a compiled meta-schema.
`

var schemaFlag = flag.String("schema", "", "path to the meta-schema against which model.xml is validated")

func main() {
	flag.Parse()
	log.Root = &log.Default{}
	args := flag.Args()
	if len(args) < 2 {
		fmt.Print(usage)
		os.Exit(2)
	}
	cmd, path := args[0], args[1]

	m, err := loadModel(path)
	if err != nil {
		log.Root.Error("load model", "path", path, "err", err)
		os.Exit(1)
	}

	switch cmd {
	case "load":
		fmt.Printf("loaded %s (schemaVersion %s): %d domains\n", m.Project, m.SchemaVersion, m.ConceptDomains.Len())
	case "digest":
		fmt.Printf("schemaSHA1=%s\nmodelSHA1=%s\ncvSHA1=%s\nfullmodelSHA1=%s\n",
			m.Digests.SchemaSHA1, m.Digests.ModelSHA1, m.Digests.CvSHA1, m.Digests.FullModelSHA1)
	case "dump":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(m); err != nil {
			log.Root.Error("dump model", "err", err)
			os.Exit(1)
		}
	default:
		fmt.Print(usage)
		os.Exit(2)
	}
}

func loadModel(path string) (*model.Model, error) {
	validator, err := loadValidator()
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(path), ".zip") {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		info, err := f.Stat()
		if err != nil {
			return nil, err
		}
		return model.LoadPackaged(f, info.Size(), validator)
	}

	modelBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	schemaBytes := modelBytes
	if *schemaFlag != "" {
		sb, err := os.ReadFile(*schemaFlag)
		if err != nil {
			return nil, err
		}
		schemaBytes = sb
	}

	src := model.Sources{
		SchemaBytes: schemaBytes,
		ModelBytes:  modelBytes,
		CVFiles:     dirCVSource{dir: filepath.Dir(path)},
	}
	return model.Load(src, validator)
}

// loadValidator builds the meta-schema validator from -schema, or returns a
// nil Validator (skip validation) when the flag is unset.
func loadValidator() (model.Validator, error) {
	if *schemaFlag == "" {
		return nil, nil
	}
	dir := filepath.Dir(*schemaFlag)
	base := filepath.Base(*schemaFlag)
	return metaschema.Load(os.DirFS(dir), base)
}

// dirCVSource resolves external CV files declared by a plain model.xml
// against files sitting next to it on disk.
type dirCVSource struct{ dir string }

func (s dirCVSource) Open(name string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.dir, name))
}
