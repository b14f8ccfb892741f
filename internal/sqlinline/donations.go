package sqlinline

// QLeaderboardDonations reads donations for the leaderboard. Display
// preferences live in the properties document written by the donation form.
// Flags are returned as raw text; only donors who opted in count against the limit.
const QLeaderboardDonations = `--sql 7a08e4f6-cb8a-42c4-bd7f-291d6e913edc
select coalesce(properties->>'display_name', ''),
       coalesce(properties->>'tier', ''),
       amount_int,
       created_at,
       coalesce(properties->>'show_on_leaderboard', ''),
       coalesce(properties->>'anonymous', '')
from donations
where properties->>'show_on_leaderboard' in ('true', 'TRUE', 'Yes')
order by created_at desc
limit $1::int;
`
