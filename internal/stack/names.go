package stack

// Logical names of the declared resources.
const (
	Vpc                    = "N8nVpc"
	InternetGateway        = "N8nVpcIGW"
	GatewayAttachment      = "N8nVpcVPCGW"
	PublicSubnet1          = "N8nVpcPublicSubnet1"
	PublicSubnet2          = "N8nVpcPublicSubnet2"
	PrivateSubnet1         = "N8nVpcPrivateSubnet1"
	PrivateSubnet2         = "N8nVpcPrivateSubnet2"
	PublicRouteTable       = "N8nVpcPublicRouteTable"
	PublicDefaultRoute     = "N8nVpcPublicDefaultRoute"
	PrivateRouteTable      = "N8nVpcPrivateRouteTable"
	PrivateDefaultRoute    = "N8nVpcPrivateDefaultRoute"
	NatEIP                 = "N8nVpcNatEIP"
	NatGateway             = "N8nVpcNatGateway"
	Cluster                = "N8nCluster"
	DbSecret               = "N8nDbSecret"
	DbSecretAttachment     = "N8nDbSecretAttachment"
	DbSecurityGroup        = "N8nDbSecurityGroup"
	DbParameterGroup       = "N8nDbParameterGroup"
	DbSubnetGroup          = "N8nDbSubnetGroup"
	DbInstance             = "N8nDbInstance"
	DbIngressFromVpc       = "N8nDbSecurityGroupIngressFromVpc"
	Certificate            = "N8nCertificate"
	LogGroup               = "N8nServiceLogGroup"
	TaskRole               = "N8nServiceTaskRole"
	ExecutionRole          = "N8nServiceExecutionRole"
	TaskDefinition         = "N8nServiceTaskDef"
	ServiceSecurityGroup   = "N8nServiceSecurityGroup"
	ServiceIngressAnywhere = "N8nServiceSecurityGroupIngressAnywhere"
	ServiceIngressFromLB   = "N8nServiceSecurityGroupIngressFromLoadBalancer"
	LoadBalancerSG         = "N8nServiceLBSecurityGroup"
	LoadBalancer           = "N8nServiceLB"
	TargetGroup            = "N8nServiceTargetGroup"
	HttpsListener          = "N8nServiceLBPublicListener"
	HttpRedirectListener   = "N8nServiceLBHttpRedirectListener"
	Service                = "N8nService"
)

// Ports and fixed values shared across declarations.
const (
	ContainerName = "web"
	ContainerPort = 5678
	DatabasePort  = 5432
	DatabaseName  = "n8n"
	DatabaseUser  = "n8n"
	Image         = "n8nio/n8n"
	HealthCheck   = "/healthz"
	AnyIPv4       = "0.0.0.0/0"
)
