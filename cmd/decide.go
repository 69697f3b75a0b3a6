package cmd

import (
	"fmt"
	"io"
	"math/rand"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/nstehr/tackle/model"
	"github.com/nstehr/tackle/rules"
	"github.com/spf13/cobra"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func newDecideCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decide <state.json|->",
		Short: "Decide one turn offline and print the full decision as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := readBattleState(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			rs, err := a.cfg.Engine.LoadRuleset()
			if err != nil {
				return fmt.Errorf("load ruleset: %w", err)
			}
			engine, err := rules.NewEngine(rs)
			if err != nil {
				return err
			}

			rng := rand.New(rand.NewSource(a.cfg.Engine.SeedOrClock()))
			d := engine.Decide(state, rules.RandomFallback(rng))

			out, err := json.MarshalIndent(d, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal decision: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

// readBattleState decodes a BattleState from path, or from stdin for "-".
func readBattleState(stdin io.Reader, path string) (model.BattleState, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return model.BattleState{}, fmt.Errorf("read battle state: %w", err)
	}

	var state model.BattleState
	if err := json.Unmarshal(data, &state); err != nil {
		return model.BattleState{}, fmt.Errorf("decode battle state %s: %w", path, err)
	}
	return state, nil
}
