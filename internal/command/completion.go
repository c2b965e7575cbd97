// Copyright (c) 2026 The power-control authors.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/power-control/power-control/internal/meta"
)

const bashCompletionScript = `# bash completion for power-control
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_power_control()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "run daemon report completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local sweep="--action --admin-email --cron --dry-run --immediate --protected-owners --region --send-email --ses-configuration-set --smtp-from --smtp-host --smtp-password --smtp-username --template-path --tracking-file --transport --tz --wait-hours"
    local out="--attrs -a --color -c --filter -f --local -l --output -o --padding --sort -s --titles -t"

    case "$cmd" in
        run|daemon)
            local opts="$sweep"
            ;;
        report)
            local opts="$sweep $out"
            ;;
        completion)
            local opts="bash zsh"
            COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
            return 0
            ;;
        *)
            local opts=""
            ;;
    esac

    case "$prev" in
        --output|-o)
            COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
            return 0
            ;;
        --action)
            COMPREPLY=( $(compgen -W "stop terminate" -- "$cur") )
            return 0
            ;;
        --transport)
            COMPREPLY=( $(compgen -W "smtp ses" -- "$cur") )
            return 0
            ;;
    esac

    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
}

complete -F _power_control power-control
`

const zshCompletionScript = `#compdef power-control

_power_control() {
  local -a cmds
  cmds=(
    'run:run a sweep now'
    'daemon:run sweeps on a cron schedule'
    'report:show what a sweep would decide, without acting'
    'completion:generate shell completion script'
  )

  local -a sweep
  sweep=(
  '--action[power action applied to out-of-schedule instances]:action:(stop terminate)'
  '--admin-email[recipient of the admin run report]:email'
  '--cron[cron spec for scheduled sweeps]:spec'
  '--dry-run[evaluate and notify but never stop anything]'
  '--immediate[run a single sweep and exit]'
  '--protected-owners[comma-separated owners never acted on]:owners'
  '--region[seed region for region discovery]:region'
  '--send-email[really send notification email]'
  '--ses-configuration-set[SES configuration set]:name'
  '--smtp-from[From address for notifications]:email'
  '--smtp-host[SMTP relay host]:host'
  '--smtp-password[SMTP password]:password'
  '--smtp-username[SMTP username]:username'
  '--template-path[directory of template overrides]:dir:_directories'
  '--tracking-file[notification tracking file]:file:_files'
  '--transport[email transport]:transport:(smtp ses)'
  '--tz[default schedule time zone]:tz'
  '--wait-hours[hours between notifications for the same instance]:hours'
  )

  local -a out
  out=(
  '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-l --local)'{-l,--local}'[show local timestamps]'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '--padding[extra spaces between table columns]:spaces'
  '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
  '(-t --titles)'{-t,--titles}'[show titles]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'power-control commands' cmds
    return
  fi

  case $words[2] in
    run|daemon)
      _arguments -C $sweep
      ;;
    report)
      _arguments -C $sweep $out
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _power_control power-control
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
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
		switch {
		case strings.HasSuffix(sh, "zsh"):
			fmt.Fprint(os.Stdout, zshCompletionScript)
		case strings.HasSuffix(sh, "bash"):
			fmt.Fprint(os.Stdout, bashCompletionScript)
		default:
			fmt.Fprintln(os.Stderr, "usage: power-control completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "power-control completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
