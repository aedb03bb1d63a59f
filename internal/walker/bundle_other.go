//go:build !darwin

package walker

func platformRules() []Rule {
	return nil
}
