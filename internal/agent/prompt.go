package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Iron-Ham/shortcuts/internal/store"
)

// SystemPrompt frames every request.
const SystemPrompt = "You are an expert assistant that analyzes raw user commands and transforms them " +
	"into a structured JSON object with the fields 'command', 'usage example' and 'description'. " +
	"Your primary task is to create a generalized, symbolic rule for the 'command' field, not just " +
	"copy the user's input. The 'usage example' field holds the user's specific command, and the " +
	"'description' explains the purpose of the command."

const promptTemplate = `You are an expert assistant specializing in command-line tools. Your task is to analyze a raw user command, derive a generalized template from it, and format the output into a structured JSON object.

CONTEXT AND EXAMPLES

Example 1:
Raw user command: "add to gitignore !wip_scripts/ !wip_scirpts/* to see all files in git"
Expected JSON output:
{
  "category": "GIT",
  "command": "!folder_name/\n!folder_name/*",
  "description": "Excludes a specific folder and its contents from Git tracking, which is useful for ignoring temporary or local files.",
  "usage example": "!wip_scripts/\n!wip_scripts/*"
}

Example 2:
Raw user command: "git checkout -b new_feature_branch to start working on a new feature"
Expected JSON output:
{
  "category": "GIT",
  "command": "git checkout -b <branch_name>",
  "description": "Creates a new branch and immediately switches to it, allowing for isolated development of a new feature.",
  "usage example": "git checkout -b new_feature_branch"
}

YOUR TASK
Raw command provided by the user: %q

Existing categories for reference:
%s

Full context of existing shortcuts for reference:
%s

Instructions:
1. Categorize: pick the most appropriate category. Prefer an existing category when it fits; otherwise suggest a concise new one. Write every category in uppercase.
2. Generalize the command: build a symbolic template, replacing specific names (files, folders, branches, URLs) with placeholders such as <branch_name>, folder_name/* or <file_extension>. This is the value of "command".
3. Usage: put the user's specific command here with obvious typos corrected (for example "restor" becomes "restore"). Do not add a description to this field. This is the value of "usage example".
4. Purpose: one clear sentence explaining what problem the command solves. This is the value of "description".

Output format:
Return a single JSON object with exactly these keys and no surrounding text or code fences:
"category": the chosen or new category name
"command": the generalized template, NOT the raw command
"description": the purpose of the command
"usage example": the specific, corrected user command`

// BuildPrompt renders the user prompt for raw with the current store as
// context.
func BuildPrompt(raw string, s *store.Store) (string, error) {
	names := s.Names()
	if names == nil {
		names = []string{}
	}
	categories, err := json.MarshalIndent(names, "", "  ")
	if err != nil {
		return "", err
	}
	full, err := store.Marshal(s)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(promptTemplate, strings.TrimSpace(raw), categories, full), nil
}
