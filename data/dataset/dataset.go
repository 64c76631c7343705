// Package dataset bundles instances into datasets and drives the bulk
// operations over them: reading line-record files, attaching background
// knowledge, grouping answer options into questions, vocabulary fitting, and
// indexing/padding whole datasets at once.
package dataset

import (
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/gomlx/go-deepqa/data/indexer"
	"github.com/gomlx/go-deepqa/data/instances"
	"github.com/gomlx/go-deepqa/tokenizers/api"
)

// Dataset is an ordered collection of text instances.
type Dataset struct {
	Instances []instances.TextInstance
}

// ReadFromFile reads one TextClassificationInstance per non-empty line of
// path. See ReadFromLines.
func ReadFromFile(path string, defaultLabel *bool, tokenizer api.Tokenizer) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open dataset file %q", path)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "error reading dataset file %q", path)
	}
	d, err := ReadFromLines(lines, defaultLabel, tokenizer)
	if err != nil {
		return nil, errors.WithMessagef(err, "in dataset file %q", path)
	}
	klog.V(1).Infof("Read %d instances from %q", len(d.Instances), path)
	return d, nil
}

// ReadFromLines parses each line as a TextClassificationInstance. Lines that
// carry no explicit index get their 0-based position in lines as index, so
// background files can refer to them.
func ReadFromLines(lines []string, defaultLabel *bool, tokenizer api.Tokenizer) (*Dataset, error) {
	d := &Dataset{Instances: make([]instances.TextInstance, 0, len(lines))}
	for i, line := range lines {
		instance, err := instances.ReadFromLine(line, defaultLabel, tokenizer)
		if err != nil {
			return nil, err
		}
		if _, ok := instance.Index(); !ok {
			instance = withIndex(instance, i, tokenizer)
		}
		d.Instances = append(d.Instances, instance)
	}
	return d, nil
}

// withIndex rebuilds a parsed instance with an assigned index; instances are
// immutable once constructed.
func withIndex(instance *instances.TextClassificationInstance, index int, tokenizer api.Tokenizer) *instances.TextClassificationInstance {
	var label *bool
	if value, ok := instance.Label(); ok {
		label = &value
	}
	return instances.NewTextClassificationInstance(instance.Text, label, &index, tokenizer)
}

// MergeBackgroundFromFile reads a background file and attaches its sentences
// to the matching instances. See MergeBackground.
func (d *Dataset) MergeBackgroundFromFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open background file %q", path)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "error reading background file %q", path)
	}
	merged, err := d.MergeBackground(lines)
	if err != nil {
		return nil, errors.WithMessagef(err, "in background file %q", path)
	}
	return merged, nil
}

// MergeBackground returns a new Dataset where instances mentioned in the
// background lines are wrapped in BackgroundInstances. Each line has the
// shape [index]<TAB>[sentence]<TAB>[sentence]..., where index refers to an
// instance's index. Instances without background lines stay as they are.
func (d *Dataset) MergeBackground(lines []string) (*Dataset, error) {
	background := make(map[int][]string, len(lines))
	for _, line := range lines {
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return nil, &instances.FormatError{Line: line}
		}
		index, err := parseIndex(fields[0])
		if err != nil {
			return nil, &instances.FormatError{Line: line}
		}
		background[index] = append(background[index], fields[1:]...)
	}

	merged := &Dataset{Instances: make([]instances.TextInstance, len(d.Instances))}
	attached := 0
	for i, instance := range d.Instances {
		index, ok := instance.Index()
		if sentences := background[index]; ok && len(sentences) > 0 {
			merged.Instances[i] = instances.NewBackgroundInstance(instance, sentences)
			attached++
		} else {
			merged.Instances[i] = instance
		}
	}
	klog.V(1).Infof("Attached background to %d of %d instances", attached, len(d.Instances))
	return merged, nil
}

func parseIndex(s string) (int, error) {
	index := 0
	if s == "" {
		return 0, errors.New("empty index")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, errors.Errorf("index %q is not a non-negative integer", s)
		}
		index = index*10 + int(r-'0')
	}
	return index, nil
}

// ToQuestions groups consecutive runs of optionsPerQuestion instances into
// QuestionInstances. The dataset size must be a multiple of
// optionsPerQuestion, and every group must contain exactly one true-labeled
// option.
func (d *Dataset) ToQuestions(optionsPerQuestion int) (*Dataset, error) {
	if optionsPerQuestion <= 0 {
		return nil, errors.Errorf("optionsPerQuestion must be positive, got %d", optionsPerQuestion)
	}
	if len(d.Instances)%optionsPerQuestion != 0 {
		return nil, errors.Errorf("dataset size %d is not a multiple of %d options per question",
			len(d.Instances), optionsPerQuestion)
	}
	questions := &Dataset{Instances: make([]instances.TextInstance, 0, len(d.Instances)/optionsPerQuestion)}
	for start := 0; start < len(d.Instances); start += optionsPerQuestion {
		options := make([]instances.TextInstance, optionsPerQuestion)
		copy(options, d.Instances[start:start+optionsPerQuestion])
		question, err := instances.NewQuestionInstance(options)
		if err != nil {
			return nil, errors.WithMessagef(err, "grouping options starting at instance %d", start)
		}
		questions.Instances = append(questions.Instances, question)
	}
	return questions, nil
}

// FitIndexer counts every word of every instance into the indexer and
// finalizes it, keeping words seen at least minCount times.
func (d *Dataset) FitIndexer(di *indexer.DataIndexer, minCount int) error {
	for _, instance := range d.Instances {
		if err := di.CountWords(instance.Words()); err != nil {
			return err
		}
	}
	return di.Fit(minCount)
}

// ToIndexed converts every instance with a finalized indexer.
func (d *Dataset) ToIndexed(di *indexer.DataIndexer) (*IndexedDataset, error) {
	indexed := &IndexedDataset{Instances: make([]instances.IndexedInstance, len(d.Instances))}
	for i, instance := range d.Instances {
		converted, err := instance.ToIndexed(di)
		if err != nil {
			return nil, errors.WithMessagef(err, "indexing instance %d", i)
		}
		indexed.Instances[i] = converted
	}
	return indexed, nil
}

// IndexedDataset is an ordered collection of indexed instances.
type IndexedDataset struct {
	Instances []instances.IndexedInstance
}

// PaddingLengths returns, per dimension, the maximum length any instance
// requires, so the whole dataset can be padded to a common shape.
func (d *IndexedDataset) PaddingLengths() map[string]int {
	lengths := map[string]int{}
	for _, instance := range d.Instances {
		for key, length := range instance.GetPaddingLengths() {
			lengths[key] = max(lengths[key], length)
		}
	}
	return lengths
}

// PadAll pads every instance to the given lengths in place.
func (d *IndexedDataset) PadAll(lengths map[string]int) {
	for _, instance := range d.Instances {
		instance.Pad(lengths)
	}
}

// AsTrainingData materializes every instance.
func (d *IndexedDataset) AsTrainingData() ([]*instances.TrainingData, error) {
	data := make([]*instances.TrainingData, len(d.Instances))
	for i, instance := range d.Instances {
		instanceData, err := instance.AsTrainingData()
		if err != nil {
			return nil, errors.WithMessagef(err, "materializing instance %d", i)
		}
		data[i] = instanceData
	}
	return data, nil
}
