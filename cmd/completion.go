package cmd

import (
	"fmt"
	"os"
)

// Completion outputs shell completion scripts
func Completion(shell string) {
	switch shell {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	case "fish":
		fmt.Print(fishCompletion)
	default:
		fmt.Fprintf(os.Stderr, "Unknown shell: %s\nSupported: bash, zsh, fish\n", shell)
		os.Exit(1)
	}
}

const bashCompletion = `_tokensafe() {
    local cur prev words cword
    _init_completion || return

    local commands="encrypt decrypt diff token status compact keyring help completion"

    if [[ $cword -eq 1 ]]; then
        COMPREPLY=($(compgen -W "$commands" -- "$cur"))
        return
    fi

    local cmd="${words[1]}"
    case "$cmd" in
        encrypt)
            if [[ "$prev" == "--in" || "$prev" == "--out" ]]; then
                _filedir
            else
                COMPREPLY=($(compgen -W "--data --in --out" -- "$cur"))
            fi
            ;;
        decrypt)
            if [[ "$prev" == "--in" || "$prev" == "--out" ]]; then
                _filedir
            else
                COMPREPLY=($(compgen -W "--in --out" -- "$cur"))
            fi
            ;;
        diff)
            if [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "--in" -- "$cur"))
            else
                _filedir
            fi
            ;;
        token)
            if [[ $cword -eq 2 ]]; then
                COMPREPLY=($(compgen -W "split list retrieve delete show reassemble" -- "$cur"))
                return
            fi
            case "${words[2]}" in
                split)
                    COMPREPLY=($(compgen -W "--parts --scheme --token" -- "$cur"))
                    ;;
                retrieve|delete|show)
                    local names
                    names=$(tokensafe token list 2>/dev/null)
                    COMPREPLY=($(compgen -W "$names" -- "$cur"))
                    ;;
            esac
            ;;
        keyring)
            COMPREPLY=($(compgen -W "save delete status" -- "$cur"))
            ;;
        help)
            COMPREPLY=($(compgen -W "$commands" -- "$cur"))
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "$cur"))
            ;;
    esac
}

complete -F _tokensafe tokensafe
`

const zshCompletion = `#compdef tokensafe

_tokensafe() {
    local -a commands
    commands=(
        'encrypt:Encrypt data into a password envelope'
        'decrypt:Verify and decrypt an envelope'
        'diff:Compare envelope contents with a local file'
        'token:Split, store and reassemble tokens'
        'status:Show token store status'
        'compact:Compact the token store'
        'keyring:Manage password in OS keyring'
        'help:Show help for a command'
        'completion:Generate shell completions'
    )

    _arguments -C \
        '1: :->command' \
        '*: :->args'

    case "$state" in
        command)
            _describe -t commands 'tokensafe commands' commands
            ;;
        args)
            case "${words[2]}" in
                encrypt)
                    _arguments \
                        '--data[Plaintext to encrypt]:data' \
                        '--in[Read plaintext from file]:file:_files' \
                        '--out[Write envelope to file]:file:_files'
                    ;;
                decrypt)
                    _arguments \
                        '--in[Read envelope from file]:file:_files' \
                        '--out[Write plaintext to file]:file:_files'
                    ;;
                diff)
                    _arguments \
                        '--in[Envelope file]:file:_files' \
                        '*:local file:_files'
                    ;;
                token)
                    _values 'subcommand' split list retrieve delete show reassemble
                    ;;
                keyring)
                    _values 'subcommand' save delete status
                    ;;
                help)
                    _describe -t commands 'tokensafe commands' commands
                    ;;
                completion)
                    _values 'shell' bash zsh fish
                    ;;
            esac
            ;;
    esac
}

_tokensafe "$@"
`

const fishCompletion = `# tokensafe fish completions

set -l commands encrypt decrypt diff token status compact keyring help completion

complete -c tokensafe -f

# Commands
complete -c tokensafe -n "not __fish_seen_subcommand_from $commands" -a encrypt -d 'Encrypt data into an envelope'
complete -c tokensafe -n "not __fish_seen_subcommand_from $commands" -a decrypt -d 'Decrypt an envelope'
complete -c tokensafe -n "not __fish_seen_subcommand_from $commands" -a diff -d 'Compare envelope with local file'
complete -c tokensafe -n "not __fish_seen_subcommand_from $commands" -a token -d 'Manage split tokens'
complete -c tokensafe -n "not __fish_seen_subcommand_from $commands" -a status -d 'Show store status'
complete -c tokensafe -n "not __fish_seen_subcommand_from $commands" -a compact -d 'Compact store'
complete -c tokensafe -n "not __fish_seen_subcommand_from $commands" -a keyring -d 'Manage password in OS keyring'
complete -c tokensafe -n "not __fish_seen_subcommand_from $commands" -a help -d 'Show help'
complete -c tokensafe -n "not __fish_seen_subcommand_from $commands" -a completion -d 'Generate completions'

# encrypt/decrypt flags
complete -c tokensafe -n "__fish_seen_subcommand_from encrypt" -l data -d 'Plaintext to encrypt'
complete -c tokensafe -n "__fish_seen_subcommand_from encrypt decrypt diff" -l in -r -F -d 'Input file'
complete -c tokensafe -n "__fish_seen_subcommand_from encrypt decrypt" -l out -r -F -d 'Output file'

# token subcommands
complete -c tokensafe -n "__fish_seen_subcommand_from token" -a "split list retrieve delete show reassemble"
complete -c tokensafe -n "__fish_seen_subcommand_from split" -l parts -d 'Number of fragments'
complete -c tokensafe -n "__fish_seen_subcommand_from split" -l scheme -a "xor shamir" -d 'Splitting scheme'
complete -c tokensafe -n "__fish_seen_subcommand_from split" -l token -d 'Token value'

# keyring subcommands
complete -c tokensafe -n "__fish_seen_subcommand_from keyring" -a "save delete status"

# help completions
complete -c tokensafe -n "__fish_seen_subcommand_from help" -a "$commands"

# completion completions
complete -c tokensafe -n "__fish_seen_subcommand_from completion" -a "bash zsh fish"
`
