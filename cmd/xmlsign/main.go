// Command xmlsign signs XML signature templates in a document using a
// PEM private key, writing the signed document to stdout.
//
// Usage:
//
//	xmlsign -key rsakey.pem [-ns "ds=http://www.w3.org/2000/09/xmldsig#"] \
//	        [-query "//ds:Signature"] [-id element,attr[,namespace]] tmpl.xml
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/aristanemi/xmlsec"
)

// idFlags collects repeatable -id flags of the form
// "element,attribute[,namespace]".
type idFlags []xmlsec.IDAttribute

func (f *idFlags) String() string {
	parts := make([]string, 0, len(*f))
	for _, a := range *f {
		parts = append(parts, fmt.Sprintf("%s,%s,%s", a.Element, a.Attribute, a.Namespace))
	}
	return strings.Join(parts, " ")
}

func (f *idFlags) Set(value string) error {
	fields := strings.Split(value, ",")
	if len(fields) < 2 || len(fields) > 3 || fields[0] == "" || fields[1] == "" {
		return fmt.Errorf("expected element,attribute[,namespace], got %q", value)
	}
	attr := xmlsec.IDAttribute{Element: fields[0], Attribute: fields[1]}
	if len(fields) == 3 {
		attr.Namespace = fields[2]
	}
	*f = append(*f, attr)
	return nil
}

func main() {
	var ids idFlags
	configPath := flag.String("config", "", "YAML signing configuration file")
	keyPath := flag.String("key", "", "PEM private key file")
	keyName := flag.String("key-name", "", "key name written into empty KeyInfo/KeyName slots")
	nsBindings := flag.String("ns", "", `namespace bindings, "prefix=uri prefix2=uri2 ..."`)
	query := flag.String("query", "", "template discovery expression (default: all dsig Signature elements)")
	continueOnFailure := flag.Bool("continue", false, "keep signing remaining templates after a failure")
	outPath := flag.String("out", "", "output file (default stdout)")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Var(&ids, "id", "identifier attribute declaration, element,attribute[,namespace] (repeatable)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <template-file>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	logger := zap.NewNop()
	if *verbose {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot create logger: %v\n", err)
			os.Exit(1)
		}
	}
	defer logger.Sync() //nolint:errcheck

	cfg := &xmlsec.Config{}
	if *configPath != "" {
		loaded, err := xmlsec.LoadConfig(*configPath)
		if err != nil {
			fatal(logger, "cannot load config", err)
		}
		cfg = loaded
	}
	if *keyPath != "" {
		cfg.KeyFile = *keyPath
	}
	if *keyName != "" {
		cfg.KeyName = *keyName
	}
	if *nsBindings != "" {
		cfg.NamespaceBindings = *nsBindings
	}
	if *query != "" {
		cfg.TemplateQuery = *query
	}
	if *continueOnFailure {
		cfg.ContinueOnFailure = true
	}
	cfg.IDAttributes = append(cfg.IDAttributes, ids...)

	if cfg.KeyFile == "" {
		fatal(logger, "no private key", fmt.Errorf("-key or key_file is required"))
	}
	name := cfg.KeyName
	if name == "" {
		name = cfg.KeyFile
	}
	key, err := xmlsec.LoadPrivateKey(cfg.KeyFile, name)
	if err != nil {
		fatal(logger, "cannot load private key", err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromFile(flag.Arg(0)); err != nil {
		fatal(logger, "cannot parse template file", err)
	}

	report, err := xmlsec.SignDocument(doc, key, cfg, xmlsec.WithLogger(logger))
	if report != nil {
		for _, outcome := range report.Outcomes {
			if outcome.Err != nil {
				fmt.Fprintf(os.Stderr, "template %d: %s: %v\n", outcome.Index, outcome.State, outcome.Err)
			}
		}
	}
	if err != nil {
		fatal(logger, "signing pass failed", err)
	}

	out := os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			fatal(logger, "cannot create output file", err)
		}
		defer f.Close()
		out = f
	}
	if _, err := doc.WriteTo(out); err != nil {
		fatal(logger, "cannot write signed document", err)
	}

	if !report.AllComplete() {
		os.Exit(1)
	}
}

func fatal(logger *zap.Logger, message string, err error) {
	logger.Error(message, zap.Error(err))
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, err)
	os.Exit(1)
}
