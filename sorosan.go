// Package sorosan is a client for Soroban smart contracts on Stellar.
//
// It covers two concerns: reading what a deployed contract exports, and
// driving the transactions that call it.
//
// # Introspection
//
// A contract's exported functions and types are stored as a sequence of
// XDR spec entries in the "contractspecv0" custom section of its wasm. The
// entries carry no length prefix, so the decoder tries candidate lengths
// from shortest to longest and accepts the first that parses:
//
//	entries := sorosan.DecodeSpecEntries(section)
//	for entry := range sorosan.SpecEntries(section) {
//	    fmt.Println(entry.Kind())
//	}
//
// Decoding stops at the first offset where no length parses and returns
// what it has.
//
// Client.Decompile and Client.ABI resolve a contract address to its code
// through the ledger and decode it in one step:
//
//	client, err := sorosan.Dial(sorosan.DefaultConfig(sorosan.NetworkTestnet))
//	methods, err := client.ABI(ctx, contract)
//
// # Values
//
// ToScVal converts Go values to ScVal, guided by an optional type hint;
// ScValToNative goes the other way. DefaultScVal and Spec.DefaultValue
// produce placeholder arguments for a declared type.
//
// # Transactions
//
// Transactions go through simulate, prepare, sign, submit and poll:
//
//	b, err := client.NewTransaction(ctx, source)
//	tx, err := b.Invoke(contract, "increment").Build()
//	tx, sim, err := client.Prepare(ctx, tx)
//	env, err := client.Sign(ctx, tx)
//	hash, err := client.Submit(ctx, env)
//	outcome, err := client.WaitForFinality(ctx, hash)
//
// Client.Invoke runs all of these. Signing is delegated to a Signer, such
// as a wallet. Polling repeats every second while the ledger reports the
// transaction as NOT_FOUND; bound it with the context.
package sorosan
