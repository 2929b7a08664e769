// Copyright (c) 2026 SightAssist Labs <dev@sightassist.io>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/sightassist/sightctl/internal/meta"
)

const bashCompletionScript = `# bash completion for sightctl
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_sightctl()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "dq pq vq uq hq img watch purge completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
  local common="--attrs -a --color -c --filter -f --fresh --local --output -o --refresh -r --sort -s --titles -t --tldr --api --token"

    case "$cmd" in
    dq)
      local opts="$common --schema --limit -l --normalize --no-normalize"
            ;;
        pq)
      local opts="$common --schema --kind -k"
            ;;
        vq)
      local opts="$common --schema"
            ;;
        uq)
      local opts="$common --schema"
            ;;
        hq)
      local opts="$common --schema --diff"
            ;;
        img)
      local opts="--device --limit -l --out --profile --region --refresh -r --fresh --api --token --tldr"
            ;;
        watch)
      local opts="--limit -l --interval -i --fresh --api --token --tldr"
            ;;
        purge)
      local opts="--hours --all --tldr"
            ;;
        completion)
            local opts="bash zsh"
            COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
        COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
        return 0
    fi

    if [[ "$prev" == "--kind" || "$prev" == "-k" ]]; then
        COMPREPLY=( $(compgen -W "anomaly danger maintenance activity" -- "$cur") )
        return 0
    fi

  COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
  return 0
}

complete -F _sightctl sightctl
`

const zshCompletionScript = `#compdef sightctl

_sightctl() {
  local -a cmds
  cmds=(
    'dq:detection query'
    'pq:prediction query'
    'vq:device query'
    'uq:user query'
    'hq:system health query'
    'img:fetch a detection snapshot image'
    'watch:live terminal dashboard'
    'purge:purge the snapshot disk cache'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '--fresh[freshness window in seconds]:seconds'
  '--local[render timestamps in the local timezone]'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '(-r --refresh)'{-r,--refresh}'[bypass the response cache]'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  '--api[backend base URL]:url'
  '--token[bearer token]:token'
  '--tldr[show tldr page]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'sightctl commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    dq)
      _arguments -C \
        $common \
        '--schema[dump schema]' \
        '(-l --limit)'{-l,--limit}'[limit detection records]:limit' \
        '--normalize[normalize confidence to 0-1]' \
        '--no-normalize[leave confidence as served]'
      ;;
    pq)
      _arguments -C \
        $common \
        '--schema[dump schema]' \
        '(-k --kind)'{-k,--kind}'[analytics kind]:kind:(anomaly danger maintenance activity)'
      ;;
    vq|uq)
      _arguments -C \
        $common \
        '--schema[dump schema]'
      ;;
    hq)
      _arguments -C \
        $common \
        '--schema[dump schema]' \
        '--diff[diff against the previous snapshot]'
      ;;
    img)
      _arguments -C \
        '--device[device id for the disk cache]:device' \
        '(-l --limit)'{-l,--limit}'[recent detections to search]:limit' \
        '--out[write the image to this path]:path:_files' \
        '--profile[AWS shared config profile]:profile' \
        '--region[AWS region override]:region' \
        '1:detection id or URL'
      ;;
    watch)
      _arguments -C \
        '(-l --limit)'{-l,--limit}'[detection rows to display]:limit' \
        '(-i --interval)'{-i,--interval}'[base refresh interval in seconds]:seconds'
      ;;
    purge)
      _arguments -C \
        '--hours[remove snapshots older than this many hours]:hours' \
        '--all[remove all snapshots]'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _sightctl sightctl
`

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(os.Stdout, bashCompletionScript)
	case "zsh":
		fmt.Fprint(os.Stdout, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		if strings.HasSuffix(sh, "zsh") {
			fmt.Fprint(os.Stdout, zshCompletionScript)
		} else if strings.HasSuffix(sh, "bash") {
			fmt.Fprint(os.Stdout, bashCompletionScript)
		} else {
			fmt.Fprintln(os.Stderr, "usage: sightctl completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func CompletionCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "sightctl completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
