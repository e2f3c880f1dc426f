package cmd

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idlab-discover/ghtt/pkg/github"
)

var (
	searchQuery    string
	searchMgAPIKey string
	searchMgDomain string
	searchMailTo   string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search repositories for matching code",
	Long: `Searches repositories matching the query, prints the matching
repositories and the name and email address of the last committer, and
optionally emails this info using Mailgun.

For more info on possible query patterns see
https://docs.github.com/en/search-github/searching-on-github/searching-code

Examples:
  * ghtt search -t "<github-token>" -q "Allkit.h in:path"
  * ghtt search -t "<github-token>" -q "Allkit.h in:path" --mg-api-key <key> --mg-domain <domain> --to <email>`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchQuery, "query", "q", "", `Query to run, e.g. "Allkit.h in:path"`)
	searchCmd.Flags().StringVar(&searchMgAPIKey, "mg-api-key", "", "Mailgun api key")
	searchCmd.Flags().StringVar(&searchMgDomain, "mg-domain", "", "Mailgun domain name")
	searchCmd.Flags().StringVar(&searchMailTo, "to", "", "Email address to send the alert to")
	_ = searchCmd.MarkFlagRequired("query")
}

func runSearch(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	token, err := github.ResolveToken(rootToken, cfg.Host())
	if err != nil {
		return err
	}
	client, err := github.NewClientForHost(cfg.Host(), token)
	if err != nil {
		return err
	}

	fmt.Printf("# Query: %q\n", searchQuery)
	fmt.Println("# Searching for repositories..")

	repos, err := client.SearchCode(searchQuery)
	if err != nil {
		return err
	}
	if len(repos) == 0 {
		fmt.Println("no results")
		return nil
	}

	var report strings.Builder
	for _, repo := range repos {
		fmt.Println(repo.HTMLURL)
		report.WriteString(repo.HTMLURL)

		head, err := client.GetBranchHead(orgOf(repo.FullName), repo.Name, repo.DefaultBranch)
		if err != nil {
			fmt.Printf("Warning: could not read last commit of %s: %v\n", repo.FullName, err)
			report.WriteString("\n")
			continue
		}
		fmt.Println("Metadata of last commit:")
		fmt.Printf("\tAuthor name: %s\n", head.AuthorName)
		fmt.Printf("\tAuthor email: %s\n\n", head.AuthorEmail)
		report.WriteString(fmt.Sprintf("\nMetadata of last commit:\n\tAuthor name: %s\n\tAuthor email: %s\n",
			head.AuthorName, head.AuthorEmail))
	}

	if searchMgAPIKey != "" && searchMgDomain != "" && searchMailTo != "" {
		fmt.Println("Sending email")
		return notifyByMail(searchMgAPIKey, searchMgDomain, searchMailTo, searchQuery, report.String())
	}

	return nil
}

func orgOf(fullName string) string {
	if i := strings.Index(fullName, "/"); i >= 0 {
		return fullName[:i]
	}
	return fullName
}

// notifyByMail sends an alert through the Mailgun messages endpoint.
func notifyByMail(apiKey, domain, to, query, text string) error {
	endpoint := fmt.Sprintf("https://api.mailgun.net/v3/%s/messages", domain)

	form := url.Values{}
	form.Set("from", fmt.Sprintf("ghtt <mailgun@%s>", domain))
	form.Set("to", to)
	form.Set("subject", fmt.Sprintf("Alert! Repositories found who match query %q", query))
	form.Set("text", text)

	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth("api", apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("mailgun returned status %s", resp.Status)
	}
	return nil
}
