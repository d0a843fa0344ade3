package stack

import (
	"strconv"

	"github.com/lex00/n8n-aws-go/intrinsics"
	"github.com/lex00/n8n-aws-go/resources/ec2"
	"github.com/lex00/n8n-aws-go/resources/rds"
	"github.com/lex00/n8n-aws-go/resources/secretsmanager"
)

// Database settings.
const (
	DatabaseEngine         = "postgres"
	DatabaseEngineVersion  = "15"
	DatabaseParameterGroup = "postgres15"
	DatabaseInstanceClass  = "db.t3.micro"
	DatabaseStorageGiB     = 20
	DatabaseMaxStorageGiB  = 100
	DatabaseBackupDays     = 7
)

// declareDatabase declares the credentials secret, the database security
// group, the parameter group and the PostgreSQL instance in the private
// subnets. Access to port 5432 is granted in declareAccessRules.
func declareDatabase(d *declarer, net network) {
	d.add(DbSecret, secretsmanager.Secret{
		Description: "Master credentials for the n8n PostgreSQL database",
		GenerateSecretString: secretsmanager.Secret_GenerateSecretString{
			SecretStringTemplate: `{"username":"` + DatabaseUser + `"}`,
			GenerateStringKey:    "password",
			ExcludePunctuation:   true,
		},
		Tags: nameTags(DbSecret),
	})

	d.add(DbSecurityGroup, ec2.SecurityGroup{
		GroupDescription: "Security group for n8n PostgreSQL database",
		VpcId:            intrinsics.RefTo(Vpc),
		SecurityGroupEgress: []any{
			ec2.SecurityGroup_Egress{
				IpProtocol:  "-1",
				CidrIp:      AnyIPv4,
				Description: "Allow all outbound traffic by default",
			},
		},
		Tags: nameTags(DbSecurityGroup),
	})

	// TLS stays optional on the server because the n8n client connects
	// with DB_POSTGRESDB_SSL=false.
	d.add(DbParameterGroup, rds.DBParameterGroup{
		Description: "Parameter group for n8n PostgreSQL 15",
		Family:      DatabaseParameterGroup,
		Parameters: map[string]any{
			"rds.force_ssl": "0",
		},
	})

	d.add(DbSubnetGroup, rds.DBSubnetGroup{
		DBSubnetGroupDescription: "Private subnets for the n8n database",
		SubnetIds:                net.privateRefs(),
	})

	d.add(DbInstance, rds.DBInstance{
		Engine:                DatabaseEngine,
		EngineVersion:         DatabaseEngineVersion,
		DBInstanceClass:       DatabaseInstanceClass,
		DBName:                DatabaseName,
		AllocatedStorage:      strconv.Itoa(DatabaseStorageGiB),
		MaxAllocatedStorage:   DatabaseMaxStorageGiB,
		StorageType:           "gp2",
		BackupRetentionPeriod: DatabaseBackupDays,
		DeletionProtection:    false,
		PubliclyAccessible:    false,
		Port:                  strconv.Itoa(DatabasePort),
		MasterUsername:        intrinsics.SecretValue(DbSecret, "username"),
		MasterUserPassword:    intrinsics.SecretValue(DbSecret, "password"),
		DBSubnetGroupName:     intrinsics.RefTo(DbSubnetGroup),
		DBParameterGroupName:  intrinsics.RefTo(DbParameterGroup),
		VPCSecurityGroups:     []any{intrinsics.Att(DbSecurityGroup, "GroupId")},
		CopyTagsToSnapshot:    true,
		Tags:                  nameTags(DbInstance),
	})

	d.add(DbSecretAttachment, secretsmanager.SecretTargetAttachment{
		SecretId:   intrinsics.RefTo(DbSecret),
		TargetId:   intrinsics.RefTo(DbInstance),
		TargetType: "AWS::RDS::DBInstance",
	})
}
