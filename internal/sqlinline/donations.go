package sqlinline

const QCampaignProgress = `--sql 80c9d821-7823-46d7-868c-d41d420f66b9
select coalesce(sum(amount_int), 0)::bigint, count(*)::bigint
from donations
where campaign_id = $1::uuid;
`

const QListCampaignDonations = `--sql c90c66c3-c312-4679-a743-77587523a58c
select id, donor_name, message, amount_int, created_at
from donations
where campaign_id = $1::uuid
order by created_at desc
limit $2::int;
`
