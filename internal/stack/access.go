package stack

import (
	"github.com/lex00/n8n-aws-go/intrinsics"
	"github.com/lex00/n8n-aws-go/resources/ec2"
)

// declareAccessRules opens the database to the VPC and the container port
// to the load balancer. The container port is also open to any IPv4
// address, which the audit reports.
func declareAccessRules(d *declarer) {
	d.add(DbIngressFromVpc, ec2.SecurityGroupIngress{
		GroupId:     intrinsics.Att(DbSecurityGroup, "GroupId"),
		IpProtocol:  "tcp",
		CidrIp:      intrinsics.Att(Vpc, "CidrBlock"),
		FromPort:    DatabasePort,
		ToPort:      DatabasePort,
		Description: "Allow PostgreSQL access from VPC",
	})

	d.add(ServiceIngressFromLB, ec2.SecurityGroupIngress{
		GroupId:               intrinsics.Att(ServiceSecurityGroup, "GroupId"),
		IpProtocol:            "tcp",
		SourceSecurityGroupId: intrinsics.Att(LoadBalancerSG, "GroupId"),
		FromPort:              ContainerPort,
		ToPort:                ContainerPort,
		Description:           "Load balancer to target",
	})

	d.add(ServiceIngressAnywhere, ec2.SecurityGroupIngress{
		GroupId:     intrinsics.Att(ServiceSecurityGroup, "GroupId"),
		IpProtocol:  "tcp",
		CidrIp:      AnyIPv4,
		FromPort:    ContainerPort,
		ToPort:      ContainerPort,
		Description: "from 0.0.0.0/0:5678",
	})
}
