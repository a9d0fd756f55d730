package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	sorosan "github.com/branched-services/go-sorosan"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var decodeRawSection bool

var abiCmd = &cobra.Command{
	Use:   "abi <contract>",
	Short: "List the functions a contract exports",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		contract, err := sorosan.ParseAddress(args[0])
		if err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}
		methods, err := client.ABI(cmd.Context(), contract)
		if err != nil {
			return err
		}
		if flags.Output == "json" {
			return writeJSON(cmd.OutOrStdout(), methods)
		}
		writeMethods(cmd.OutOrStdout(), methods)
		return nil
	},
}

var decompileCmd = &cobra.Command{
	Use:   "decompile <contract>",
	Short: "List every spec entry of a deployed contract",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		contract, err := sorosan.ParseAddress(args[0])
		if err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}
		entries, err := client.Decompile(cmd.Context(), contract)
		if err != nil {
			return err
		}
		writeEntries(cmd.OutOrStdout(), entries)
		return nil
	},
}

var decodeSpecCmd = &cobra.Command{
	Use:   "decode-spec <file>",
	Short: "Decode the spec entries of a local wasm file",
	Long:  "Decode the contractspecv0 section of a wasm file. With --raw the file holds the section payload itself.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		entries, err := decodeSpecFile(cmd.Context(), data, decodeRawSection)
		if err != nil {
			return err
		}
		writeEntries(cmd.OutOrStdout(), entries)
		return nil
	},
}

var wasmIDCmd = &cobra.Command{
	Use:   "wasm-id <contract>",
	Short: "Print the code hash a contract runs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		contract, err := sorosan.ParseAddress(args[0])
		if err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}
		id, err := client.WasmID(cmd.Context(), contract)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(id[:]))
		return nil
	},
}

func init() {
	decodeSpecCmd.Flags().BoolVar(&decodeRawSection, "raw", false, "file is a raw contractspecv0 section, not a wasm module")
}

func decodeSpecFile(ctx context.Context, data []byte, raw bool) ([]sorosan.SpecEntry, error) {
	var opts []sorosan.SpecOption
	if logger != nil {
		opts = append(opts, sorosan.WithSpecLogger(logger))
	}
	if raw {
		return sorosan.DecodeSpecEntries(data, opts...), nil
	}
	return sorosan.SpecFromWasm(ctx, sorosan.NewWazeroModuleReader(), data, opts...)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeMethods(w io.Writer, methods []sorosan.MethodDescriptor) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Function", "Inputs", "Outputs"})
	table.SetAutoWrapText(false)
	for _, m := range methods {
		inputs := make([]string, len(m.Inputs))
		for i, in := range m.Inputs {
			inputs[i] = in.Name + ": " + in.Def.String()
		}
		outputs := make([]string, len(m.Outputs))
		for i, out := range m.Outputs {
			outputs[i] = out.Def.String()
		}
		table.Append([]string{m.Name, strings.Join(inputs, ", "), strings.Join(outputs, ", ")})
	}
	table.Render()
}

func writeEntries(w io.Writer, entries []sorosan.SpecEntry) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Kind", "Name", "Definition"})
	table.SetAutoWrapText(false)
	for _, e := range entries {
		name, def := describeEntry(e)
		table.Append([]string{e.Kind().String(), name, def})
	}
	table.Render()
}

// describeEntry renders an entry as a name and a one-line definition.
func describeEntry(e sorosan.SpecEntry) (string, string) {
	switch e := e.(type) {
	case sorosan.FunctionSpec:
		inputs := make([]string, len(e.Inputs))
		for i, in := range e.Inputs {
			inputs[i] = in.Name + ": " + in.Type.String()
		}
		sig := "(" + strings.Join(inputs, ", ") + ")"
		if len(e.Outputs) > 0 {
			outputs := make([]string, len(e.Outputs))
			for i, out := range e.Outputs {
				outputs[i] = out.String()
			}
			sig += " -> " + strings.Join(outputs, ", ")
		}
		return e.Name, sig
	case sorosan.StructSpec:
		fields := make([]string, len(e.Fields))
		for i, f := range e.Fields {
			fields[i] = f.Name + ": " + f.Type.String()
		}
		return e.Name, "{" + strings.Join(fields, ", ") + "}"
	case sorosan.UnionSpec:
		cases := make([]string, len(e.Cases))
		for i, c := range e.Cases {
			cases[i] = c.Name
			if c.Tuple {
				types := make([]string, len(c.Types))
				for j, t := range c.Types {
					types[j] = t.String()
				}
				cases[i] += "(" + strings.Join(types, ", ") + ")"
			}
		}
		return e.Name, strings.Join(cases, " | ")
	case sorosan.EnumSpec:
		return e.Name, enumCases(e.Cases)
	case sorosan.ErrorEnumSpec:
		return e.Name, enumCases(e.Cases)
	case sorosan.EventSpec:
		parts := append([]string{}, e.PrefixTopics...)
		for _, p := range e.Params {
			part := p.Name + ": " + p.Type.String()
			if p.InTopic {
				part += " (topic)"
			}
			parts = append(parts, part)
		}
		return e.Name, strings.Join(parts, ", ")
	}
	return "", ""
}

func enumCases(cases []sorosan.EnumCase) string {
	parts := make([]string, len(cases))
	for i, c := range cases {
		parts[i] = c.Name + " = " + strconv.FormatUint(uint64(c.Value), 10)
	}
	return strings.Join(parts, ", ")
}
