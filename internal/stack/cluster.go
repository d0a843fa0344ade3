package stack

import "github.com/lex00/n8n-aws-go/resources/ecs"

func declareCluster(d *declarer) {
	d.add(Cluster, ecs.Cluster{Tags: nameTags(Cluster)})
}
