package stack

import (
	"github.com/lex00/n8n-aws-go/intrinsics"
	"github.com/lex00/n8n-aws-go/resources/ec2"
)

// network holds the logical names other declarations attach to.
type network struct {
	publicSubnets  []string
	privateSubnets []string
}

func (n network) publicRefs() []any  { return refs(n.publicSubnets) }
func (n network) privateRefs() []any { return refs(n.privateSubnets) }

func refs(names []string) []any {
	out := make([]any, len(names))
	for i, name := range names {
		out[i] = intrinsics.RefTo(name)
	}
	return out
}

type subnetSpec struct {
	name   string
	cidr   string
	az     any
	public bool
}

// declareNetwork declares a VPC spanning two availability zones with one
// public and one private subnet in each and a single NAT gateway.
func declareNetwork(d *declarer) network {
	d.add(Vpc, ec2.VPC{
		CidrBlock:          "10.0.0.0/16",
		EnableDnsHostnames: true,
		EnableDnsSupport:   true,
		InstanceTenancy:    "default",
		Tags:               nameTags(Vpc),
	})

	d.add(InternetGateway, ec2.InternetGateway{Tags: nameTags(Vpc)})
	d.add(GatewayAttachment, ec2.VPCGatewayAttachment{
		VpcId:             intrinsics.RefTo(Vpc),
		InternetGatewayId: intrinsics.RefTo(InternetGateway),
	})

	firstAZ := intrinsics.Select{Index: 0, List: intrinsics.GetAZs{Region: ""}}
	secondAZ := intrinsics.Select{Index: 1, List: intrinsics.GetAZs{Region: ""}}

	subnets := []subnetSpec{
		{name: PublicSubnet1, cidr: "10.0.0.0/18", az: firstAZ, public: true},
		{name: PublicSubnet2, cidr: "10.0.64.0/18", az: secondAZ, public: true},
		{name: PrivateSubnet1, cidr: "10.0.128.0/18", az: firstAZ},
		{name: PrivateSubnet2, cidr: "10.0.192.0/18", az: secondAZ},
	}

	d.add(PublicRouteTable, ec2.RouteTable{VpcId: intrinsics.RefTo(Vpc), Tags: nameTags(PublicRouteTable)})
	d.add(PublicDefaultRoute, ec2.Route{
		RouteTableId:         intrinsics.RefTo(PublicRouteTable),
		DestinationCidrBlock: AnyIPv4,
		GatewayId:            intrinsics.RefTo(InternetGateway),
	}, GatewayAttachment)

	d.add(PrivateRouteTable, ec2.RouteTable{VpcId: intrinsics.RefTo(Vpc), Tags: nameTags(PrivateRouteTable)})

	var net network
	for _, s := range subnets {
		d.add(s.name, ec2.Subnet{
			VpcId:               intrinsics.RefTo(Vpc),
			CidrBlock:           s.cidr,
			AvailabilityZone:    s.az,
			MapPublicIpOnLaunch: s.public,
			Tags:                nameTags(s.name),
		})

		table := PrivateRouteTable
		if s.public {
			table = PublicRouteTable
			net.publicSubnets = append(net.publicSubnets, s.name)
		} else {
			net.privateSubnets = append(net.privateSubnets, s.name)
		}
		d.add(s.name+"RouteTableAssociation", ec2.SubnetRouteTableAssociation{
			SubnetId:     intrinsics.RefTo(s.name),
			RouteTableId: intrinsics.RefTo(table),
		})
	}

	d.add(NatEIP, ec2.EIP{Domain: "vpc", Tags: nameTags(PublicSubnet1)})
	d.add(NatGateway, ec2.NatGateway{
		AllocationId: intrinsics.Att(NatEIP, "AllocationId"),
		SubnetId:     intrinsics.RefTo(PublicSubnet1),
		Tags:         nameTags(PublicSubnet1),
	}, PublicDefaultRoute)

	d.add(PrivateDefaultRoute, ec2.Route{
		RouteTableId:         intrinsics.RefTo(PrivateRouteTable),
		DestinationCidrBlock: AnyIPv4,
		NatGatewayId:         intrinsics.RefTo(NatGateway),
	})

	return net
}
