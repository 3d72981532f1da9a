package issues

// DefaultRules returns the built-in known-issue registry in evaluation
// order. Every built-in rule uses presence matching: the order in which its
// patterns appear in the log does not matter.
func DefaultRules() []Rule {
	return []Rule{
		PatternRule("fail_to_get_project_during_cleanup",
			"After scenario RuntimeError raised while getting project during cleanup.",
			`=== After Scenario:`,
			`the server is currently unable to handle the request \(get projects\.project\.openshift\.io\)`,
			`RuntimeError: error getting projects by user`,
		),
		PatternRule("etcd_leader_change",
			"Etcd leader changed while the scenario was talking to the API server.",
			`etcdserver: leader changed`,
		),
		PatternRule("image_pull_rate_limit",
			"Image pull failed on the registry rate limit.",
			`Failed to pull image`,
			`toomanyrequests: You have reached your pull rate limit`,
		),
		PatternRule("node_stopped_reporting",
			"A node went NotReady mid-scenario; kubelet stopped posting status.",
			`Kubelet stopped posting node status`,
		),
	}
}
