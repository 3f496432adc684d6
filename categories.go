package portix

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// readCategories returns the categories a repository declares in
// profiles/categories. Without that file every top-level directory that
// looks like a category is taken.
func readCategories(repo string) ([]string, error) {
	f, err := os.Open(filepath.Join(repo, "profiles", "categories"))
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		return scanCategories(repo)
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out, sc.Err()
}

func scanCategories(repo string) ([]string, error) {
	entries, err := os.ReadDir(repo)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if strings.Contains(name, "-") || name == "virtual" {
			out = append(out, name)
		}
	}
	return out, nil
}

// mergeCategories returns the sorted union of lists.
func mergeCategories(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, c := range list {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	sort.Strings(out)
	return out
}

// repoName returns the name in profiles/repo_name, or fallback.
func repoName(repo, fallback string) string {
	data, err := os.ReadFile(filepath.Join(repo, "profiles", "repo_name"))
	if err != nil {
		return fallback
	}
	if name := strings.TrimSpace(string(data)); name != "" {
		return name
	}
	return fallback
}
