package settings

// Typed settings sections mirroring the workspace panels. Each section is
// stored under its own key so a failed save in one panel never clobbers
// another.

const (
	SectionEmailChannel   = "channel.email"
	SectionLINEChannel    = "channel.line"
	SectionXChannel       = "channel.x"
	SectionSearch         = "search"
	SectionTray           = "tray"
	SectionWebAccess      = "webaccess"
	SectionInfrastructure = "infrastructure"
	SectionWorktree       = "worktree"
	SectionAdminPolicy    = "admin_policy"
)

type EmailChannelSettings struct {
	Enabled      bool   `json:"enabled" yaml:"enabled"`
	IMAPHost     string `json:"imap_host" yaml:"imap_host"`
	IMAPPort     int    `json:"imap_port" yaml:"imap_port"`
	SMTPHost     string `json:"smtp_host" yaml:"smtp_host"`
	SMTPPort     int    `json:"smtp_port" yaml:"smtp_port"`
	Address      string `json:"address" yaml:"address"`
	Password     string `json:"password,omitempty" yaml:"password,omitempty"`
	AllowedFrom  string `json:"allowed_from,omitempty" yaml:"allowed_from,omitempty"`
	PollInterval int    `json:"poll_interval_seconds,omitempty" yaml:"poll_interval_seconds,omitempty"`
}

type LINEChannelSettings struct {
	Enabled            bool   `json:"enabled" yaml:"enabled"`
	ChannelSecret      string `json:"channel_secret,omitempty" yaml:"channel_secret,omitempty"`
	ChannelAccessToken string `json:"channel_access_token,omitempty" yaml:"channel_access_token,omitempty"`
	WebhookURL         string `json:"webhook_url,omitempty" yaml:"webhook_url,omitempty"`
}

type XChannelSettings struct {
	Enabled      bool   `json:"enabled" yaml:"enabled"`
	APIKey       string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	APISecret    string `json:"api_secret,omitempty" yaml:"api_secret,omitempty"`
	AccessToken  string `json:"access_token,omitempty" yaml:"access_token,omitempty"`
	AccessSecret string `json:"access_secret,omitempty" yaml:"access_secret,omitempty"`
	PollMentions bool   `json:"poll_mentions" yaml:"poll_mentions"`
}

// SearchSettings holds per-provider API keys for the search integrations.
type SearchSettings struct {
	DefaultProvider string            `json:"default_provider,omitempty" yaml:"default_provider,omitempty"`
	Keys            map[string]string `json:"keys,omitempty" yaml:"keys,omitempty"`
}

type TraySettings struct {
	MinimizeToTray bool `json:"minimize_to_tray" yaml:"minimize_to_tray"`
	StartMinimized bool `json:"start_minimized" yaml:"start_minimized"`
	ShowRunBadge   bool `json:"show_run_badge" yaml:"show_run_badge"`
}

type WebAccessSettings struct {
	Enabled        bool     `json:"enabled" yaml:"enabled"`
	AllowedDomains []string `json:"allowed_domains,omitempty" yaml:"allowed_domains,omitempty"`
	BlockDownloads bool     `json:"block_downloads" yaml:"block_downloads"`
}

type InfrastructureSettings struct {
	Provider      string `json:"provider,omitempty" yaml:"provider,omitempty"`
	Region        string `json:"region,omitempty" yaml:"region,omitempty"`
	WalletAddress string `json:"wallet_address,omitempty" yaml:"wallet_address,omitempty"`
	SpendLimitUSD int    `json:"spend_limit_usd,omitempty" yaml:"spend_limit_usd,omitempty"`
}

type WorktreeSettings struct {
	BaseBranch     string `json:"base_branch,omitempty" yaml:"base_branch,omitempty"`
	WorktreeRoot   string `json:"worktree_root,omitempty" yaml:"worktree_root,omitempty"`
	AutoPrune      bool   `json:"auto_prune" yaml:"auto_prune"`
	CommitTemplate string `json:"commit_template,omitempty" yaml:"commit_template,omitempty"`
}

// AdminPolicySettings is the workspace-wide policy document editable from
// the admin panel.
type AdminPolicySettings struct {
	AllowPluginInstall bool     `json:"allow_plugin_install" yaml:"allow_plugin_install"`
	AllowWebAccess     bool     `json:"allow_web_access" yaml:"allow_web_access"`
	AllowWalletSpend   bool     `json:"allow_wallet_spend" yaml:"allow_wallet_spend"`
	MaxConcurrentRuns  int      `json:"max_concurrent_runs,omitempty" yaml:"max_concurrent_runs,omitempty"`
	BlockedChannels    []string `json:"blocked_channels,omitempty" yaml:"blocked_channels,omitempty"`
}
