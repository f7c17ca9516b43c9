package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"voicebot_sim/pkg/core/entity"
)

var contractCmd = &cobra.Command{
	Use:   "contract",
	Short: "Preview the extraction contract built from entity definitions",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := formFromFlags(cmd)
		if err != nil {
			return err
		}
		contract, err := entity.BuildContract(f.Entities)
		if err != nil {
			return err
		}

		if asSchema, _ := cmd.Flags().GetBool("schema"); asSchema {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(contract.JSONSchema())
		}
		fmt.Fprint(cmd.OutOrStdout(), contract.Describe())
		return nil
	},
}

func init() {
	contractCmd.Flags().String("form", "", "Load entities from a JSON form file")
	contractCmd.Flags().StringArrayP("entity", "e", nil, "Entity as name:type:description (repeatable)")
	contractCmd.Flags().Bool("schema", false, "Print the JSON schema sent to the extractor")
	rootCmd.AddCommand(contractCmd)
}
