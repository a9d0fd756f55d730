package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	sorosan "github.com/branched-services/go-sorosan"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate <contract> <method> [args...]",
	Short: "Estimate the fee of a contract call in stroops",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, contract, callArgs, err := prepareCall(cmd.Context(), args)
		if err != nil {
			return err
		}
		fee, err := sorosan.NewGasEstimator(client).Estimate(cmd.Context(), contract, args[1], callArgs...)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d stroops (%s XLM)\n", fee, sorosan.StroopsToXLM(fee))
		return nil
	},
}

var callCmd = &cobra.Command{
	Use:   "call <contract> <method> [args...]",
	Short: "Simulate a read-only contract call and print the result",
	Long:  "Simulate a contract call from the placeholder account. Arguments are converted with the types the contract declares.",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, contract, callArgs, err := prepareCall(cmd.Context(), args)
		if err != nil {
			return err
		}
		v, err := client.CallScVal(cmd.Context(), contract, args[1], callArgs...)
		if err != nil {
			return err
		}
		if flags.Output != "json" {
			fmt.Fprintln(cmd.OutOrStdout(), v.String())
			return nil
		}
		native, err := sorosan.ScValToNative(v)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), native)
	},
}

var txStatusCmd = &cobra.Command{
	Use:   "tx-status <hash>",
	Short: "Show the status of a submitted transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		res, err := client.Service().GetTransaction(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		ret := "-"
		if res.Status == sorosan.StatusSuccess && res.ResultMetaXDR != "" {
			ret = sorosan.ReturnValueFromMeta(res.ResultMetaXDR).String()
		}
		if flags.Output == "json" {
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"hash":         args[0],
				"status":       res.Status,
				"ledger":       res.Ledger,
				"latestLedger": res.LatestLedger,
				"returnValue":  ret,
			})
		}
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"Field", "Value"})
		table.Append([]string{"Hash", args[0]})
		table.Append([]string{"Status", res.Status})
		table.Append([]string{"Ledger", strconv.FormatUint(uint64(res.Ledger), 10)})
		table.Append([]string{"Latest ledger", strconv.FormatUint(uint64(res.LatestLedger), 10)})
		table.Append([]string{"Return value", ret})
		table.Render()
		return nil
	},
}

// prepareCall dials the endpoint and converts the string arguments of a
// call with the contract's declared input types, when it has a spec.
func prepareCall(ctx context.Context, args []string) (*sorosan.Client, sorosan.Address, []any, error) {
	contract, err := sorosan.ParseAddress(args[0])
	if err != nil {
		return nil, sorosan.Address{}, nil, err
	}
	client, err := newClient()
	if err != nil {
		return nil, sorosan.Address{}, nil, err
	}
	spec, err := client.ContractSpec(ctx, contract)
	if err != nil {
		return nil, sorosan.Address{}, nil, err
	}
	callArgs, err := cliArgs(spec, args[1], args[2:])
	if err != nil {
		return nil, sorosan.Address{}, nil, err
	}
	if _, ok := spec.Function(args[1]); !ok {
		return client, contract, callArgs, nil
	}
	vals, err := sorosan.NewContract(contract, sorosan.WithSpec(spec)).Args(args[1], callArgs...)
	if err != nil {
		return nil, sorosan.Address{}, nil, err
	}
	typed := make([]any, len(vals))
	for i, v := range vals {
		typed[i] = v
	}
	return client, contract, typed, nil
}

// cliArgs converts command line arguments. Declared bool inputs are
// parsed as booleans and container inputs as JSON; everything else stays
// a string for the declared type hint to convert. Without a declaration
// the arguments are passed as strings.
func cliArgs(spec *sorosan.Spec, method string, raw []string) ([]any, error) {
	out := make([]any, len(raw))
	fn, ok := spec.Function(method)
	if !ok || len(fn.Inputs) != len(raw) {
		for i, s := range raw {
			out[i] = s
		}
		return out, nil
	}
	for i, s := range raw {
		switch fn.Inputs[i].Type.Type {
		case sorosan.SpecTypeBool:
			b, err := strconv.ParseBool(s)
			if err != nil {
				return nil, fmt.Errorf("argument %s: %w", fn.Inputs[i].Name, err)
			}
			out[i] = b
		case sorosan.SpecTypeVec, sorosan.SpecTypeMap, sorosan.SpecTypeTuple:
			var v any
			if err := json.Unmarshal([]byte(s), &v); err != nil {
				return nil, fmt.Errorf("argument %s: %w", fn.Inputs[i].Name, err)
			}
			out[i] = v
		default:
			out[i] = s
		}
	}
	return out, nil
}
