package compile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/docfill/go-docfill/pkg/docfill"
)

type DataFlags struct {
	FromFiles []string
	KVs       []string
}

func (s *DataFlags) Set(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&s.FromFiles, "data-file", nil, "Load data values from a TOML or JSON file, chosen by extension (can be specified multiple times)")
	cmd.Flags().StringArrayVarP(&s.KVs, "data", "d", nil, "Set specific data value to given value, as string (format: company.name=Acme) (can be specified multiple times)")
}

// Values layers the data sources: files in the order given, then key=value
// overrides on top. Dotted keys in overrides nest into maps.
func (s *DataFlags) Values() (docfill.TemplateData, error) {
	result := docfill.TemplateData{}

	for _, path := range s.FromFiles {
		vals, err := s.file(path)
		if err != nil {
			return nil, fmt.Errorf("Extracting data values from file '%s': %s", path, err)
		}
		for k, v := range vals {
			result[k] = v
		}
	}

	for _, kv := range s.KVs {
		err := s.kv(result, kv)
		if err != nil {
			return nil, fmt.Errorf("Extracting data value from KV: %s", err)
		}
	}

	return result, nil
}

func (s *DataFlags) file(path string) (map[string]interface{}, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	vals := map[string]interface{}{}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(contents, &vals); err != nil {
			return nil, fmt.Errorf("Deserializing TOML: %s", err)
		}
	case ".json":
		if err := json.Unmarshal(contents, &vals); err != nil {
			return nil, fmt.Errorf("Deserializing JSON: %s", err)
		}
	default:
		return nil, fmt.Errorf("Expected .toml or .json extension")
	}

	return vals, nil
}

func (s *DataFlags) kv(result docfill.TemplateData, kv string) error {
	pieces := strings.SplitN(kv, "=", 2)
	if len(pieces) != 2 {
		return fmt.Errorf("Expected format key=value")
	}

	keyPieces := strings.Split(pieces[0], ".")
	curr := map[string]interface{}(result)

	for _, keyPiece := range keyPieces[:len(keyPieces)-1] {
		sub, found := curr[keyPiece]
		if found {
			typedSub, ok := sub.(map[string]interface{})
			if !ok {
				return fmt.Errorf("Expected key '%s' to not conflict with other data values at piece '%s'", pieces[0], keyPiece)
			}
			curr = typedSub
		} else {
			newCurr := map[string]interface{}{}
			curr[keyPiece] = newCurr
			curr = newCurr
		}
	}

	curr[keyPieces[len(keyPieces)-1]] = pieces[1]
	return nil
}
