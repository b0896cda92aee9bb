package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/illarion/tokensafe/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "encrypt":
		runEncrypt(ctx, os.Args[2:])
	case "decrypt":
		runDecrypt(ctx, os.Args[2:])
	case "diff":
		runDiff(ctx, os.Args[2:])
	case "token":
		runToken(ctx, os.Args[2:])
	case "status":
		runStatus(ctx, os.Args[2:])
	case "compact":
		runCompact(ctx, os.Args[2:])
	case "keyring":
		runKeyring(ctx, os.Args[2:])
	case "completion":
		runCompletion(ctx, os.Args[2:])
	case "help", "-h", "--help":
		if len(os.Args) <= 2 {
			printUsage()
			return
		}
		printCommandHelp(os.Args[2])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// parseArgs parses flags that may appear before or after positional
// arguments and returns the positionals in order.
func parseArgs(fs *flag.FlagSet, args []string) []string {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func runEncrypt(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("encrypt", flag.ExitOnError)
	data := fs.String("data", "", "Plaintext to encrypt")
	in := fs.String("in", "", "Read plaintext from file (default stdin)")
	out := fs.String("out", "", "Write envelope to file (default stdout)")
	parseArgs(fs, args)

	cmd.Encrypt(ctx, *data, *in, *out)
}

func runDecrypt(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("decrypt", flag.ExitOnError)
	in := fs.String("in", "", "Read envelope from file (default stdin)")
	out := fs.String("out", "", "Write plaintext to file (default stdout)")
	parseArgs(fs, args)

	cmd.Decrypt(ctx, *in, *out)
}

func runDiff(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("diff", flag.ExitOnError)
	in := fs.String("in", "", "Envelope file")
	rest := parseArgs(fs, args)

	if *in == "" || len(rest) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: tokensafe diff --in <envelope> <local-file>")
		os.Exit(1)
	}
	cmd.Diff(ctx, *in, rest[0])
}

func runToken(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: tokensafe token <split|list|retrieve|delete|show|reassemble>")
		os.Exit(1)
	}

	sub, args := args[0], args[1:]
	switch sub {
	case "split":
		fs := flag.NewFlagSet("token split", flag.ExitOnError)
		parts := fs.Int("parts", 0, "Number of fragments (default from config)")
		scheme := fs.String("scheme", "", "Splitting scheme: xor or shamir (default from config)")
		token := fs.String("token", "", "Token value (prompted if empty)")
		rest := parseArgs(fs, args)
		cmd.TokenSplit(ctx, requireName("split", rest), *parts, *scheme, *token)
	case "list":
		parseArgs(flag.NewFlagSet("token list", flag.ExitOnError), args)
		cmd.TokenList(ctx)
	case "retrieve":
		rest := parseArgs(flag.NewFlagSet("token retrieve", flag.ExitOnError), args)
		cmd.TokenRetrieve(ctx, requireName("retrieve", rest))
	case "delete":
		rest := parseArgs(flag.NewFlagSet("token delete", flag.ExitOnError), args)
		cmd.TokenDelete(ctx, requireName("delete", rest))
	case "show":
		rest := parseArgs(flag.NewFlagSet("token show", flag.ExitOnError), args)
		cmd.TokenShow(ctx, requireName("show", rest))
	case "reassemble":
		cmd.TokenReassemble(args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown token subcommand: %s\n", sub)
		os.Exit(1)
	}
}

func requireName(sub string, args []string) string {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Usage: tokensafe token %s <name>\n", sub)
		os.Exit(1)
	}
	return args[0]
}

func runStatus(ctx context.Context, args []string) {
	parseArgs(flag.NewFlagSet("status", flag.ExitOnError), args)
	cmd.Status(ctx)
}

func runCompact(ctx context.Context, args []string) {
	parseArgs(flag.NewFlagSet("compact", flag.ExitOnError), args)
	cmd.Compact(ctx)
}

func runKeyring(_ context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: tokensafe keyring <save|delete|status>")
		os.Exit(1)
	}

	switch args[0] {
	case "save":
		cmd.KeyringSave()
	case "delete":
		cmd.KeyringDelete()
	case "status":
		cmd.KeyringStatus()
	default:
		fmt.Fprintf(os.Stderr, "Unknown keyring subcommand: %s\n", args[0])
		os.Exit(1)
	}
}

func runCompletion(_ context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: tokensafe completion <bash|zsh|fish>")
		os.Exit(1)
	}
	cmd.Completion(args[0])
}

func printUsage() {
	fmt.Println("tokensafe - password envelopes and split token storage")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  tokensafe <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  encrypt     Encrypt data into a password envelope")
	fmt.Println("  decrypt     Verify and decrypt an envelope")
	fmt.Println("  diff        Compare envelope contents with a local file")
	fmt.Println("  token       Split, store, list and reassemble tokens")
	fmt.Println("  status      Show token store status")
	fmt.Println("  compact     Compact the token store to reclaim disk space")
	fmt.Println("  keyring     Manage password in OS keyring")
	fmt.Println("  completion  Generate shell completions")
	fmt.Println("  help        Show help for a command")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  tokensafe encrypt --in .env --out env.json   # Seal a file")
	fmt.Println("  tokensafe decrypt --in env.json              # Print plaintext")
	fmt.Println("  tokensafe token split github                 # Store a token as fragments")
	fmt.Println("  tokensafe token retrieve github              # Reassemble it")
	fmt.Println()
	fmt.Println("Use 'tokensafe help <command>' for more information about a command.")
}

func printCommandHelp(command string) {
	switch command {
	case "encrypt":
		fmt.Println("tokensafe encrypt [--data S] [--in FILE] [--out FILE]")
		fmt.Println()
		fmt.Println("Encrypts data with a password and emits a JSON envelope holding")
		fmt.Println("encrypted_data, salt, iv and mac. Plaintext comes from --data,")
		fmt.Println("then --in, then stdin. The password comes from TOKENSAFE_PASSWORD,")
		fmt.Println("the OS keyring, or a prompt.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  tokensafe encrypt --data 'hello world'")
		fmt.Println("  tokensafe encrypt --in .env --out env.json")
	case "decrypt":
		fmt.Println("tokensafe decrypt [--in FILE] [--out FILE]")
		fmt.Println()
		fmt.Println("Verifies an envelope and prints or writes the plaintext.")
		fmt.Println("A wrong password and a corrupted envelope fail the same way;")
		fmt.Println("nothing is decrypted unless the mac checks out.")
		fmt.Println()
		fmt.Println("Example:")
		fmt.Println("  tokensafe decrypt --in env.json --out .env")
	case "diff":
		fmt.Println("tokensafe diff --in FILE <local-file>")
		fmt.Println()
		fmt.Println("Decrypts an envelope and shows a unified diff against a local file.")
		fmt.Println()
		fmt.Println("Example:")
		fmt.Println("  tokensafe diff --in env.json .env")
	case "token":
		fmt.Println("tokensafe token <subcommand>")
		fmt.Println()
		fmt.Println("Subcommands:")
		fmt.Println("  split <name> [--parts N] [--scheme xor|shamir] [--token S]")
		fmt.Println("                         Split a token and store its fragments")
		fmt.Println("  list                   List stored token names")
		fmt.Println("  retrieve <name>        Reassemble and print a token")
		fmt.Println("  delete <name>          Remove a token")
		fmt.Println("  show <name>            Print the encoded fragments of a token")
		fmt.Println("  reassemble <frag>...   Rebuild a token from encoded fragments")
		fmt.Println()
		fmt.Println("All fragments are required to reassemble a token. Fragments are")
		fmt.Println("stored unencrypted; keep the store file out of version control.")
	case "status":
		fmt.Println("tokensafe status")
		fmt.Println()
		fmt.Println("Shows the store file, its tokens and git exposure.")
		fmt.Println("Does not read fragment contents.")
	case "compact":
		fmt.Println("tokensafe compact")
		fmt.Println()
		fmt.Println("Compacts the token store to reclaim space left by deleted tokens.")
	case "keyring":
		fmt.Println("tokensafe keyring <save|delete|status>")
		fmt.Println()
		fmt.Println("Stores the envelope password in the OS keyring for this store.")
	case "completion":
		fmt.Println("tokensafe completion <bash|zsh|fish>")
		fmt.Println()
		fmt.Println("Outputs shell completion script for the specified shell.")
		fmt.Println()
		fmt.Println("Setup:")
		fmt.Println("  # Bash - add to ~/.bashrc")
		fmt.Println("  eval \"$(tokensafe completion bash)\"")
		fmt.Println()
		fmt.Println("  # Zsh - add to ~/.zshrc")
		fmt.Println("  eval \"$(tokensafe completion zsh)\"")
		fmt.Println()
		fmt.Println("  # Fish - add to ~/.config/fish/config.fish")
		fmt.Println("  tokensafe completion fish | source")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
	}
}
