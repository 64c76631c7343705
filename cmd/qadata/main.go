// qadata reads a line-record dataset, fits a word vocabulary, indexes and
// pads the instances, and prints a summary of the result.
//
// Usage:
//
//	qadata -input train.tsv [-background background.tsv] [-options 4] [-min-count 1]
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"k8s.io/klog/v2"

	"github.com/gomlx/go-deepqa/data/dataset"
	"github.com/gomlx/go-deepqa/data/indexer"
	"github.com/gomlx/go-deepqa/tokenizers/wordtokenizer"
)

var (
	flagInput      = flag.String("input", "", "dataset file, one tab-separated record per line")
	flagBackground = flag.String("background", "", "optional background file ([index]<TAB>[sentence]...)")
	flagOptions    = flag.Int("options", 0, "group consecutive instances into questions with this many options")
	flagMinCount   = flag.Int("min_count", 1, "minimum word count to enter the vocabulary")
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75"))
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("246")).Width(26)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if *flagInput == "" {
		fmt.Fprintln(os.Stderr, "missing required -input flag")
		flag.Usage()
		os.Exit(2)
	}
	if err := run(); err != nil {
		klog.Exitf("qadata: %+v", err)
	}
}

func run() error {
	d, err := dataset.ReadFromFile(*flagInput, nil, wordtokenizer.Default)
	if err != nil {
		return err
	}
	if *flagBackground != "" {
		d, err = d.MergeBackgroundFromFile(*flagBackground)
		if err != nil {
			return err
		}
	}
	if *flagOptions > 0 {
		d, err = d.ToQuestions(*flagOptions)
		if err != nil {
			return err
		}
	}

	di := indexer.New()
	if err := d.FitIndexer(di, *flagMinCount); err != nil {
		return err
	}
	indexed, err := d.ToIndexed(di)
	if err != nil {
		return err
	}
	lengths := indexed.PaddingLengths()
	indexed.PadAll(lengths)

	fmt.Println(titleStyle.Render("Dataset summary"))
	printRow("instances", fmt.Sprintf("%d", len(indexed.Instances)))
	printRow("vocabulary size", fmt.Sprintf("%d", di.VocabularySize()))
	keys := make([]string, 0, len(lengths))
	for key := range lengths {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		printRow(key, fmt.Sprintf("%d", lengths[key]))
	}
	return nil
}

func printRow(key, value string) {
	fmt.Println(keyStyle.Render(key) + valueStyle.Render(value))
}
